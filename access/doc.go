/*
Package access controls who reaches gated course material.

Admins mint access codes with [Codes]. Students exchange a code
for an entitlement with [Redeemer], and every protected page load
asks [Gate] whether the visitor may see it.

# Policies

Two policies decide what a successful redemption grants.

[PolicyIdentity], the default, binds the code to the signed-in student:
the code flips to used, records the student's email,
and an [aula.Entitlement] keyed by the student's ID is written in the same transaction.

[PolicyBearer] grants the browser that presented the code.
Nothing is written server-side; the normalized code is returned as a token
the caller keeps in the visitor's session and presents on later page loads.
The same code can be used by anyone who knows it.
*/
package access
