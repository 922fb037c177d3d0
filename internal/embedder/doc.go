// Package embedder turns file names into fixed-length vector embeddings.
//
// Every provider implements Embedder. The default, local, is an offline
// model built from hashed word and character-trigram features of the name;
// ollama, openai and jina call HTTP embedding endpoints.
//
// # Basic Usage
//
//	emb, err := embedder.Open(ctx, embedder.Config{Provider: "local"})
//	if err != nil {
//	    log.Fatal(err) // model unavailable: refuse to start
//	}
//	defer emb.Close()
//
//	resp, err := emb.GenerateBatch(ctx, embedder.BatchEmbeddingRequest{
//	    Texts: []string{"app.py", "README.md"},
//	})
//
// Open runs a probe embedding (with exponential backoff for remote
// providers) so that a missing model fails the process at startup rather
// than part way through a scan. After startup nothing is retried.
//
// # Caching
//
// Providers memoise vectors in an LRU Cache keyed by model and text, so a
// rescan does not call the model again for names it has already seen. Vectors
// are copied on the way in and out.
package embedder
