package di

import (
	"testing"

	"github.com/specdata/deploy-master/internal/dao/enrichmentdao"
	"github.com/specdata/deploy-master/internal/dao/ruledao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testService struct {
	region string
}

func TestNew_ProvidesRegion(t *testing.T) {
	container, err := New("eu-west-1", WithProviders(
		func(region string) *testService { return &testService{region: region} },
	))
	require.NoError(t, err)

	svc := MustGet[*testService](container)
	assert.Equal(t, "eu-west-1", svc.region)
}

func TestNew_DefaultTables(t *testing.T) {
	container, err := New("us-east-1")
	require.NoError(t, err)

	assert.Equal(t, RuleTable(ruledao.DefaultTableName), MustGet[RuleTable](container))
	assert.Equal(t, EnrichmentTable(enrichmentdao.DefaultTableName), MustGet[EnrichmentTable](container))
}

func TestNew_WithTables(t *testing.T) {
	container, err := New("us-east-1", WithTables("custom-rules", "custom-enrichment"))
	require.NoError(t, err)

	assert.Equal(t, RuleTable("custom-rules"), MustGet[RuleTable](container))
	assert.Equal(t, EnrichmentTable("custom-enrichment"), MustGet[EnrichmentTable](container))
}

func TestMustGet_PanicsOnMissingDependency(t *testing.T) {
	container, err := New("us-east-1")
	require.NoError(t, err)

	assert.Panics(t, func() {
		MustGet[*testService](container)
	})
}
