// Package github provides a small client for the GitHub REST API search and
// user endpoints.
//
// The package is organized into several components:
//
//   - Endpoints: builds fully-qualified request targets with a deterministic
//     query parameter order
//   - Client: issues a single GET with the fixed GitHub headers and decodes
//     the JSON body
//   - Service: one method per API operation, composing Endpoints and Client
//   - Error: the closed error taxonomy every fallible call returns
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	endpoints, err := github.NewEndpoints(github.DefaultBaseURL)
//	if err != nil {
//		log.Fatal(err)
//	}
//	client := github.NewClient(logger, github.WithUserAgent("my-tool"))
//	svc := github.NewService(client, endpoints)
//
//	page, err := svc.SearchUsers(ctx, "torvalds", 1, github.SortBestMatch, github.OrderDefault)
//
// # Error Handling
//
// The client makes exactly one attempt per call. Every failure is returned
// as a *Error whose Kind is one of KindNetwork, KindServer, KindDecoding or
// KindUnknown:
//
//	if errors.Is(err, github.ErrServer) {
//		var apiErr *github.Error
//		errors.As(err, &apiErr)
//		if apiErr.IsRateLimited() {
//			// back off
//		}
//	}
package github
