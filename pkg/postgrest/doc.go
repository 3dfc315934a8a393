// Package postgrest is a fluent client for Supabase's PostgREST endpoints
// under {base}/rest/v1.
//
// Queries are built with chained calls and dispatched with a terminal
// Execute* method; exactly one HTTP round trip happens per terminal call.
//
// Query parameters follow PostgREST syntax:
//
//	Parameter         | Description
//	------------------|------------------------------------------------
//	?select=col1,col2 | Select specific columns
//	?order=col.desc   | Order results
//	?limit=100        | Limit number of results
//	?offset=0         | Pagination offset
//	?col=eq.val       | Filter by column equality
//	?col=gt.val       | Filter with greater than comparison
//	?col=lt.val       | Filter with less than comparison
//	?col=gte.val      | Filter with greater than or equal comparison
//	?col=lte.val      | Filter with less than or equal comparison
//	?col=neq.val      | Filter with not-equal comparison
//	?col=in.(a,b,c)   | Filter with value lists
//	?col=fts.val      | Full-text search
//
// Filter values are passed through verbatim; the caller is responsible for
// values containing '&' or other reserved query-string characters.
//
// Basic usage:
//
//	client, err := postgrest.NewClient(postgrest.Config{
//		BaseURL: os.Getenv("SUPABASE_URL"),
//		APIKey:  os.Getenv("SUPABASE_KEY"),
//	})
//	rows, err := client.From("users").
//		Eq("status", "active").
//		Order("created_at", false).
//		Limit(25).
//		Execute(ctx)
package postgrest
