package e2e

import (
	"github.com/cucumber/godog"

	"sybilguard/e2e/steps/common"
	"sybilguard/e2e/steps/identity"
)

// RegisterSteps wires every step package into a scenario. Identity steps rely
// on the operator token and response assertions from common.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	identity.RegisterSteps(ctx, tc)
}
