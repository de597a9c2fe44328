// Package http provides a thin convenience layer over an HTTP transport:
// it builds requests, dispatches them asynchronously, classifies responses
// and optionally decodes JSON bodies.
//
// Every call runs the same pipeline:
//   - NormalizeURL appends query parameters and sorts them by key
//   - BuildRequest merges headers over the client defaults and attaches the
//     body for POST, PUT and DELETE only
//   - the Transport performs exactly one exchange
//   - Classify turns transport errors and statuses >= 400 into failures
//   - FilterPrefix strips an anti-hijacking prefix such as "while(1);"
//   - the completion is invoked exactly once
//
// Basic Usage:
//
//	client := http.NewClient()
//	defer client.Close()
//
//	call := client.Get(ctx, "https://httpbin.org/get", map[string]string{"herp": "derp"},
//	    func(o http.Outcome) {
//	        if o.Err != nil {
//	            log.Println(o.Err)
//	            return
//	        }
//	        fmt.Printf("%s\n", o.Body)
//	    })
//	call.Wait()
//
// JSON Example:
//
//	client.DoJSON(ctx, http.NewRequest(http.MethodGet, "https://example.com/feed").
//	    WithHeader("Authorization", "Bearer token").
//	    WithResponseFilter("while(1);"),
//	    func(res http.JSONResult) {
//	        if code, ok := http.StatusCode(res.Err); ok {
//	            log.Printf("server said %d: %s", code, res.JSON.Get("message"))
//	            return
//	        }
//	        fmt.Println(res.JSON.Get("items.#").Int())
//	    })
//
// Transports:
//
// NetTransport (net/http, with DNS/connect/TLS/TTFB timing) is the default.
// RestyTransport wraps go-resty. Any type with a Do method satisfying
// Transport can be injected with WithTransport, which is how tests substitute
// deterministic fakes.
//
// Thread Safety:
//
// Client is safe for concurrent use. Multiple goroutines may invoke methods
// on a Client simultaneously.
package http
