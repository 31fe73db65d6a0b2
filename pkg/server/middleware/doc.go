// Package middleware provides the HTTP middleware chain for the Compass API:
// panic recovery, request logging, request ID propagation, CORS, and
// per-route metrics. Middleware composes outermost-first:
//
//	handler = RecoveryMiddleware(
//	    LoggingMiddleware(
//	        RequestIDMiddleware(
//	            CORSMiddleware(corsConfig)(mux))))
package middleware
