package catalog

import (
	"strings"

	"github.com/jhoicas/Insumos-api/internal/domain/entity"
)

// Search filtra records (ordenados del más reciente al más antiguo) por query sobre nombre o
// código sin distinguir caja y consolida los resultados por nombre normalizado.
//
// Cada nombre normalizado ocupa un lugar en el orden de su primera aparición; dentro del
// lugar gana el registro más reciente y, a igual fecha de creación, el de mayor precio.
// El recorrido termina cuando hay limit lugares distintos.
func Search(records []*entity.CatalogItem, query string, limit int) []*entity.CatalogItem {
	if limit <= 0 {
		return []*entity.CatalogItem{}
	}
	q := Fold(strings.TrimSpace(query))
	slots := make(map[string]int)
	out := make([]*entity.CatalogItem, 0, limit)
	for _, rec := range records {
		if rec == nil || !matches(rec, q) {
			continue
		}
		key := NormalizeName(rec.Name)
		if i, ok := slots[key]; ok {
			if supersedes(rec, out[i]) {
				out[i] = rec
			}
			continue
		}
		slots[key] = len(out)
		out = append(out, rec)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// CollapsePage arma una página a partir de hasta limit+1 registros en orden de listado.
// Solo los primeros limit se consideran; se consolidan por código (case-fold) y gana la
// primera aparición. Los códigos vacíos nunca se consolidan. nextCursor es el ID del último
// registro de la ventana cuando quedan más registros; vacío si no.
func CollapsePage(records []*entity.CatalogItem, limit int) (page []*entity.CatalogItem, nextCursor string) {
	if limit <= 0 {
		return []*entity.CatalogItem{}, ""
	}
	window := records
	hasMore := len(records) > limit
	if hasMore {
		window = records[:limit]
	}
	seen := make(map[string]struct{}, len(window))
	page = make([]*entity.CatalogItem, 0, len(window))
	for _, rec := range window {
		if rec == nil {
			continue
		}
		key := Fold(strings.TrimSpace(rec.Code))
		if key != "" {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		page = append(page, rec)
	}
	if hasMore && len(window) > 0 {
		nextCursor = window[len(window)-1].ID
	}
	return page, nextCursor
}

func matches(rec *entity.CatalogItem, foldedQuery string) bool {
	if foldedQuery == "" {
		return true
	}
	return strings.Contains(Fold(rec.Name), foldedQuery) || strings.Contains(Fold(rec.Code), foldedQuery)
}

// supersedes indica si candidate reemplaza a current dentro del mismo lugar.
func supersedes(candidate, current *entity.CatalogItem) bool {
	if candidate.CreatedAt.After(current.CreatedAt) {
		return true
	}
	return candidate.CreatedAt.Equal(current.CreatedAt) && candidate.UnitPrice.GreaterThan(current.UnitPrice)
}
