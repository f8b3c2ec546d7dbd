// Package redis stores issued refresh token ids so each refresh token can be
// used exactly once. The Redis-backed registry is used when an address is
// configured; MemoryRegistry serves single-instance deployments and tests.
package redis
