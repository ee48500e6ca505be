// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// All reconciliation between the local record and the remote search
// service lives here and depends only on the driven interfaces.
package services
