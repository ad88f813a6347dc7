/*
Package watch tells interested parties when a collection changes.

A [Hub] carries bare change notices, never records.
Subscribers re-read what they need, which [Snapshot] does for them:
it delivers the whole collection once, then again after every change,
until cancelled or its context ends.

[Local] fans notices out within one process.
[Redis] fans them out across every process sharing a Redis server.
*/
package watch
