/*
Package bookingsdk is a client for the booking service HTTP API.

A Client covers the unauthenticated endpoints and opens sessions:

	client := bookingsdk.NewClient("https://booking.example.com")

	user, err := client.Register(ctx, bookingsdk.RegisterRequest{...})
	session, err := client.Login(ctx, "ana@example.com", "correct horse battery")

A Session carries the token pair and refreshes the access token shortly
before it expires. Refresh tokens rotate on every use, so a Session must
not be copied between processes that refresh independently.

	group, err := session.CreateGroup(ctx, "Trip")
	members, err := session.Members(ctx, group.ID)

Every non-2xx response is returned as an *APIError carrying the HTTP
status, the machine readable code and, for validation failures, the
offending fields:

	var apiErr *bookingsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == bookingsdk.ErrorCodeGroupNotFound {
		...
	}

The server uses the same APIError type to write its responses.
*/
package bookingsdk
