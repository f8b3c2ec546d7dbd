// Package task runs background work on a bounded in-memory queue.
// Account mails are its only producer: the Outbox accepts mails from request
// handlers and a worker pool delivers them without blocking the response.
package task
