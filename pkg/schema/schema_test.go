package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type SchemaTestSuite struct {
	suite.Suite
}

func TestSchemaSuite(t *testing.T) {
	suite.Run(t, new(SchemaTestSuite))
}

type sample struct {
	Symbol   string  `json:"symbol" jsonschema:"title=Symbol,required"`
	Interval string  `json:"interval" jsonschema:"enum=1h,enum=4h"`
	Weight   float64 `json:"weight,omitempty" jsonschema:"minimum=0"`
}

func (suite *SchemaTestSuite) TestToJSONSchema() {
	raw, err := ToJSONSchema(sample{})
	suite.Require().NoError(err)

	var doc map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(raw), &doc))

	props, ok := doc["properties"].(map[string]any)
	suite.Require().True(ok, "schema should be inlined without $defs")
	suite.Contains(props, "symbol")
	suite.Contains(props, "interval")
	suite.Contains(doc["required"], "symbol")

	interval := props["interval"].(map[string]any)
	suite.ElementsMatch([]any{"1h", "4h"}, interval["enum"])
}

type yamlSample struct {
	DataDir string `yaml:"data_dir"`
}

func (suite *SchemaTestSuite) TestFieldNameTag() {
	raw, err := ToJSONSchema(yamlSample{}, WithFieldNameTag("yaml"))
	suite.Require().NoError(err)
	suite.Contains(raw, `"data_dir"`)
	suite.NotContains(raw, `"DataDir"`)
}
