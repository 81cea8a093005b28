// Package kvstore provides string key/value backends for tile preferences:
// an in-memory map, a JSON file that can be watched for changes made by other
// processes, and an embedded SQLite database.
package kvstore
