package identity

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	GetResponseField(field string) (any, error)
}

// RegisterSteps registers identity verification, relationship and override steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &identitySteps{
		tc:     tc,
		suffix: strconv.FormatInt(time.Now().UnixNano(), 36),
	}

	ctx.Step(`^I verify identity "([^"]*)"$`, steps.verifyIdentity)
	ctx.Step(`^I verify identity "([^"]*)" requiring "([^"]*)"$`, steps.verifyIdentityRequiring)
	ctx.Step(`^I look up identity "([^"]*)"$`, steps.lookUpIdentity)
	ctx.Step(`^I request an urgent analysis of "([^"]*)"$`, steps.requestUrgentAnalysis)
	ctx.Step(`^I register a "([^"]*)" relationship from "([^"]*)" to "([^"]*)" with strength ([0-9.]+)$`, steps.registerRelationship)
	ctx.Step(`^I list accounts related to "([^"]*)"$`, steps.listRelated)
	ctx.Step(`^I request the engine status$`, steps.requestStatus)
	ctx.Step(`^I request the detected clusters$`, steps.requestClusters)
	ctx.Step(`^I flag identity "([^"]*)" as a sybil with reason "([^"]*)"$`, steps.flagIdentity)
	ctx.Step(`^I mark identity "([^"]*)" as a verified human$`, steps.markVerifiedHuman)

	ctx.Step(`^the related accounts should include "([^"]*)"$`, steps.relatedShouldInclude)
	ctx.Step(`^the suspicion reasons should include "([^"]*)"$`, steps.reasonsShouldInclude)
}

// identitySteps scopes every named identity to the scenario so repeated runs
// against one server never share state.
type identitySteps struct {
	tc     TestContext
	suffix string
}

func (s *identitySteps) addr(name string) string {
	return name + "-" + s.suffix
}

func (s *identitySteps) verifyIdentity(ctx context.Context, name string) error {
	return s.tc.POST("/identity/verify", map[string]any{"address": s.addr(name)})
}

func (s *identitySteps) verifyIdentityRequiring(ctx context.Context, name, strength string) error {
	return s.tc.POST("/identity/verify", map[string]any{
		"address":           s.addr(name),
		"required_strength": strength,
	})
}

func (s *identitySteps) lookUpIdentity(ctx context.Context, name string) error {
	return s.tc.GET("/identity/" + s.addr(name))
}

func (s *identitySteps) requestUrgentAnalysis(ctx context.Context, name string) error {
	return s.tc.POST("/identity/analyze", map[string]any{
		"address": s.addr(name),
		"urgent":  true,
	})
}

func (s *identitySteps) registerRelationship(ctx context.Context, relType, source, target, strength string) error {
	value, err := strconv.ParseFloat(strength, 64)
	if err != nil {
		return err
	}
	return s.tc.POST("/identity/relationships", map[string]any{
		"source":   s.addr(source),
		"target":   s.addr(target),
		"type":     relType,
		"strength": value,
	})
}

func (s *identitySteps) listRelated(ctx context.Context, name string) error {
	return s.tc.GET("/identity/" + s.addr(name) + "/related")
}

func (s *identitySteps) requestStatus(ctx context.Context) error {
	return s.tc.GET("/identity/status")
}

func (s *identitySteps) requestClusters(ctx context.Context) error {
	return s.tc.GET("/identity/clusters")
}

func (s *identitySteps) flagIdentity(ctx context.Context, name, reason string) error {
	return s.tc.POST("/admin/identity/"+s.addr(name)+"/flag", map[string]any{
		"reasons": []string{reason},
	})
}

func (s *identitySteps) markVerifiedHuman(ctx context.Context, name string) error {
	return s.tc.POST("/admin/identity/"+s.addr(name)+"/verify-human", map[string]any{
		"data": map[string]string{"method": "e2e"},
	})
}

func (s *identitySteps) relatedShouldInclude(ctx context.Context, name string) error {
	return s.listShouldInclude("related", s.addr(name))
}

func (s *identitySteps) reasonsShouldInclude(ctx context.Context, reason string) error {
	return s.listShouldInclude("suspicion_reasons", reason)
}

func (s *identitySteps) listShouldInclude(field, want string) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("field %s is not a list: %v", field, value)
	}
	for _, item := range items {
		if item == want {
			return nil
		}
	}
	return fmt.Errorf("expected %s to include %q, got %v", field, want, items)
}
