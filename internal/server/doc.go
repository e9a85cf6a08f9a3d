// Package server provides HTTP routing, middleware, and the server lifecycle for the web application.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally. Routes are registered with method-qualified
// patterns, so path wildcards such as {id} are available through [http.Request.PathValue] and requests with a
// method that no route accepts receive 405.
//
// # Middleware
//
// [RequestLogger] logs method, path, status, and duration of each request. [Recoverer] turns handler panics into
// 500 responses.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Lifecycle
//
// [Server.Run] serves until its context is cancelled, then drains in-flight requests within the shutdown timeout.
package server
