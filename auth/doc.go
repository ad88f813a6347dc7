/*
Package auth is the identity provider of an aula app.

Students and admins sign in with an email and password, hashed with bcrypt,
or with their Google account through OAuth 2.0.

# Google

[Service.AuthCodeURL] signs the page a visitor wanted into the OAuth state parameter
as an HS256 JWT, so the callback handled by [Service.SignInFederated] can send
them on without trusting anything else the browser sends back.
The state's ID doubles as a nonce the caller keeps in the visitor's session;
a callback presenting a state minted for another session is rejected.
Google accounts are matched by subject, then by verified email;
unknown accounts become students.

# Observers

[Service.OnIdentityChange] registers callbacks fired on every sign in and sign out.
*/
package auth
