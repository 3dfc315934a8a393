// Package supago is a Go client for Supabase projects.
//
// A single Client bundles one client per Supabase service, all sharing one
// HTTP connection pool:
//
//	Field   | Service
//	--------|---------------------------------------------
//	DB      | PostgREST tables and RPC at /rest/v1
//	Auth    | GoTrue sessions and users at /auth/v1
//	Storage | Bucket objects at /storage/v1
//	Graphql | pg_graphql queries at /graphql/v1
//
// Typical usage:
//
//	sb, err := supago.NewClient(supago.Config{
//		URL: os.Getenv("SUPABASE_URL"),
//		Key: os.Getenv("SUPABASE_KEY"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rows, err := sb.DB.Select("todos").
//		Columns("id", "title").
//		Eq("done", "false").
//		Limit(20).
//		Execute(ctx)
//
// Each service client can also be constructed on its own from its package
// (postgrest, auth, storage, graphql) when only one service is needed.
package supago
