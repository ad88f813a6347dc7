/*
Package postgres connects an aula app to PostgreSQL through GORM.

[Connect] opens the connection and runs every keyed [Migration] not yet recorded
in the migrations table. When connecting to a test database, the public schema is dropped first.

[DB] wraps a *gorm.DB, translating driver errors into the aula sentinel errors,
and [Store] builds every store the app needs on top of it.
*/
package postgres
