package common

// AccessTokenHeaderName is the HTTP header used to carry the access token on
// inbound API requests, in addition to the standard Authorization bearer form.
const AccessTokenHeaderName = "access_token"
