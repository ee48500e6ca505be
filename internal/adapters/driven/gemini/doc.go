// Package gemini implements driven.SearchService on top of Gemini File Search
// stores using the google.golang.org/genai SDK.
//
// A corpus is a FileSearchStore and a document is a FileSearchStore document.
// Every call passes through a RateLimiter so that bursts from batch uploads or
// the MCP server stay within quota.
package gemini
