// Package bioquery is a Go client for taxonomy-aware queries over protein,
// RNA half-life and observation documents stored in Redis 8 with the query
// engine and JSON modules.
//
// The central operation is the equivalence search: starting from a
// reference organism or protein, it widens the shared ancestry one
// taxonomic level at a time and returns what it finds at each distance.
//
//	client, err := bioquery.New(ctx, bioquery.WithRedis("localhost:6379", ""))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	_, _ = client.EnsureIndexes(ctx)
//
//	k, _ := client.Taxa().CommonAncestorByName(ctx, "Escherichia coli", "Klebsiella pneumoniae")
//	fmt.Println(k.Ancestor, k.Distances)
//
//	res, _ := client.Proteins().Equivalents(ctx, bioquery.NamespaceKEGG, "P0A6F5", bioquery.NewOptions(3))
//	for _, b := range res.Buckets {
//	    fmt.Println(b.Distance, len(b.Documents))
//	}
package bioquery
