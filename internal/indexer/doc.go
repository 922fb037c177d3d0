// Package indexer walks a directory tree and appends every .py and .md file
// it finds to the file index.
//
// # Scanning
//
// Scanner.Scan walks the tree depth-first. Directories named in the ignore
// denylist are pruned (the root itself never is) and files with other
// extensions are skipped. Each retained file is announced on the event
// channel the moment it is found, before it is committed, then queued.
// Every full batch of file names is embedded with one call and committed in
// one transaction; the remainder is flushed when the walk ends.
//
// The first error from the walk, the embedder or the store stops the scan.
// Whatever happens, the last event on the channel has Done set (carrying the
// error, if any) and the channel is then closed.
//
// # Sessions
//
// Coordinator allows one scan at a time:
//
//	coord := indexer.NewCoordinator(scanner, ".", logger)
//	session, ok := coord.Start(ctx)
//	if !ok {
//	    // already scanning
//	}
//	for {
//	    events, done := session.Drain(64)
//	    show(events)
//	    if done {
//	        break
//	    }
//	}
//
// Rescanning an unchanged tree appends a second row for every file; rows
// are never updated or removed.
package indexer
