package protein

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/bioquery/internal/db"
	"github.com/kailas-cloud/bioquery/internal/domain"
	domprotein "github.com/kailas-cloud/bioquery/internal/domain/protein"
)

// decodeProtein hydrates a protein from its stored document and applies
// the boundary defaults: group keys in stored case, "nan" keys dropped.
func decodeProtein(raw []byte) (domprotein.Protein, error) {
	var p domprotein.Protein
	if err := json.Unmarshal(raw, &p); err != nil {
		return domprotein.Protein{}, fmt.Errorf("%w: decode protein: %w", domain.ErrCorruptDocument, err)
	}
	if p.UniprotID == "" {
		return domprotein.Protein{}, fmt.Errorf("%w: protein without uniprot_id", domain.ErrCorruptDocument)
	}
	if len(p.AncestorIDs) != len(p.AncestorNames) {
		return domprotein.Protein{}, fmt.Errorf("%w: protein %s: %d ancestor ids but %d names",
			domain.ErrCorruptDocument, p.UniprotID, len(p.AncestorIDs), len(p.AncestorNames))
	}

	p.KONumber = domprotein.NamespaceKEGG.Normalize(p.KONumber)
	p.OrthoDBID = domprotein.NamespaceOrthoDB.Normalize(p.OrthoDBID)
	if p.KONumber == "" {
		p.KONames = nil
	}
	if p.OrthoDBID == "" {
		p.OrthoDBName = ""
	}
	return p, nil
}

func decodeEntry(e db.SearchEntry) (domprotein.Protein, error) {
	raw, ok := e.Document()
	if !ok {
		return domprotein.Protein{}, fmt.Errorf("%w: %s returned without a document", domain.ErrCorruptDocument, e.Key)
	}
	return decodeProtein(raw)
}
