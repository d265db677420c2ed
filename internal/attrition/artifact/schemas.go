package artifact

import (
	"sync"

	"retention-service/internal/common/validation"
)

const scalerSchemaJSON = `{
  "type": "object",
  "required": ["feature_names_in"],
  "properties": {
    "feature_names_in": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
    "mean": {"type": ["array", "null"], "items": {"type": "number"}},
    "scale": {"type": ["array", "null"], "items": {"type": "number"}}
  }
}`

const logisticSchemaJSON = `{
  "type": "object",
  "required": ["kind", "feature_names", "coef", "intercept"],
  "properties": {
    "kind": {"enum": ["logistic"]},
    "feature_names": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
    "coef": {"type": "array", "minItems": 1, "items": {"type": "number"}},
    "intercept": {"type": "number"}
  }
}`

const lightGBMSchemaJSON = `{
  "type": "object",
  "required": ["name", "objective", "feature_names", "tree_info"],
  "properties": {
    "name": {"enum": ["tree"]},
    "objective": {"type": "string", "pattern": "^binary"},
    "num_class": {"type": "integer", "enum": [1]},
    "feature_names": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
    "average_output": {"type": "boolean"},
    "tree_info": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["tree_structure"],
        "properties": {
          "shrinkage": {"type": "number"},
          "tree_structure": {"type": "object"}
        }
      }
    }
  }
}`

var (
	schemasOnce    sync.Once
	schemasErr     error
	scalerSchema   *validation.Schema
	logisticSchema *validation.Schema
	lightGBMSchema *validation.Schema
)

func compileSchemas() error {
	schemasOnce.Do(func() {
		if scalerSchema, schemasErr = validation.CompileJSON(scalerSchemaJSON); schemasErr != nil {
			return
		}
		if logisticSchema, schemasErr = validation.CompileJSON(logisticSchemaJSON); schemasErr != nil {
			return
		}
		lightGBMSchema, schemasErr = validation.CompileJSON(lightGBMSchemaJSON)
	})
	return schemasErr
}
