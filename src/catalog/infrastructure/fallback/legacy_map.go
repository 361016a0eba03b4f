package fallback

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/entity"
)

// LegacyMapping tabla de "clave de categoría + índice posicional" hacia IDs
// canónicos del catálogo. Soporta links creados antes de la migración de
// catálogo (ej: "pizzas:0"). Se carga una sola vez al inicio, read-only.
type LegacyMapping map[string]string

// LoadLegacyMapping carga la tabla desde un archivo JSON. Con path vacío
// devuelve la tabla compilada por defecto. Un archivo malformado es un error
// fatal de configuración, no se intenta adivinar una recuperación.
func LoadLegacyMapping(path string) (LegacyMapping, error) {
	if path == "" {
		return defaultLegacyMapping(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading legacy mapping file: %w", err)
	}

	var mapping LegacyMapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("malformed legacy mapping file %s: %w", path, err)
	}

	for key, productID := range mapping {
		if key == "" || productID == "" {
			return nil, fmt.Errorf("malformed legacy mapping file %s: empty key or product id", path)
		}
	}

	return mapping, nil
}

// Resolve traduce (clave de categoría, índice) al ID canónico de producto
func (m LegacyMapping) Resolve(categoryKey string, index int) (string, error) {
	key := categoryKey + ":" + strconv.Itoa(index)
	productID, ok := m[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", entity.ErrLegacyIDNotFound, key)
	}
	return productID, nil
}

func defaultLegacyMapping() LegacyMapping {
	return LegacyMapping{
		"pizzas:0":       "prod-pizza-muzzarella",
		"pizzas:1":       "prod-pizza-napolitana",
		"hamburguesas:0": "prod-burger-clasica",
		"bebidas:0":      "prod-gaseosa-cola",
		"bebidas:1":      "prod-agua-mineral",
	}
}
