package prerequisites_test

import (
	"testing"

	"github.com/philbennett94/planet-express/pkg/prerequisites"
	"github.com/stretchr/testify/assert"
)

func TestPrerequisitePlanner_PlanRequiredProviders(t *testing.T) {
	planner := prerequisites.NewPlanner()

	assert.Equal(t, []string{"Microsoft.DocumentDB"}, planner.PlanRequiredProviders(prerequisites.Requirements{}))
	assert.Equal(t,
		[]string{"Microsoft.DocumentDB", "Microsoft.Resources"},
		planner.PlanRequiredProviders(prerequisites.Requirements{CreatesResourceGroups: true}),
	)
}
