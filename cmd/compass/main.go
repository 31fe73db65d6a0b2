// Compass is a compliance rule-matching service for small businesses.
//
// It evaluates a business profile against a catalog of regulatory
// obligations and produces an explainable checklist of what applies and why.
//
// Usage:
//
//	# Start the API server with default configuration
//	compass serve
//
//	# Start with a custom configuration file
//	compass serve --config /path/to/config.yaml
//
//	# Evaluate a profile against a catalog without a server
//	compass evaluate --profile profile.json --catalog catalog.json
//
//	# Lint a catalog file
//	compass catalog validate --file catalog.json
//
//	# Show version information
//	compass version
package main

func main() {
	Execute()
}
