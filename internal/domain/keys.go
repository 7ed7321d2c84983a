package domain

// KeyPrefix namespaces every key the query layer reads.
const KeyPrefix = "bioquery:"

// Collection names a document collection in the store.
type Collection string

// Collections served by the query layer.
const (
	CollectionTaxon       Collection = "taxon"
	CollectionProtein     Collection = "protein"
	CollectionRNA         Collection = "rna"
	CollectionObservation Collection = "observation"
)

// DocKey returns the storage key of a document in the collection.
func (c Collection) DocKey(id string) string {
	return KeyPrefix + string(c) + ":" + id
}

// KeyPattern returns the key prefix covered by the collection index.
func (c Collection) KeyPattern() string {
	return KeyPrefix + string(c) + ":"
}

// IndexName returns the search index name of the collection.
func (c Collection) IndexName() string {
	return KeyPrefix + string(c) + ":idx"
}
