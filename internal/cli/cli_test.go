package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestPoliciesCommandListsCatalog(t *testing.T) {
	var buf bytes.Buffer
	policiesCmd.SetOut(&buf)
	policiesCmd.Run(policiesCmd, nil)

	out := buf.String()
	for _, want := range []string{"Access to Education", "[a1]", "[cr3]", "tier 3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestValidateCommandAcceptsDiverseSelection(t *testing.T) {
	var buf bytes.Buffer
	validateCmd.SetOut(&buf)
	if err := validateCmd.RunE(validateCmd, []string{"a1", "l2", "t1"}); err != nil {
		t.Fatalf("valid selection rejected: %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "valid") {
		t.Fatalf("output: %s", buf.String())
	}
}

func TestValidateCommandRejectsSingleTier(t *testing.T) {
	var buf bytes.Buffer
	validateCmd.SetOut(&buf)
	if err := validateCmd.RunE(validateCmd, []string{"a2", "l2"}); err == nil {
		t.Fatalf("single-tier selection should fail:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "diversity") && !strings.Contains(buf.String(), "Need diversity") {
		t.Fatalf("output should carry the diversity warning:\n%s", buf.String())
	}
}

func TestValidateCommandUnknownOption(t *testing.T) {
	var buf bytes.Buffer
	validateCmd.SetOut(&buf)
	if err := validateCmd.RunE(validateCmd, []string{"nope"}); err == nil {
		t.Fatal("unknown option id should fail")
	}
}

func TestAgentsCommandListsRoster(t *testing.T) {
	var buf bytes.Buffer
	agentsCmd.SetOut(&buf)
	agentsCmd.Run(agentsCmd, nil)

	out := buf.String()
	for _, want := range []string{"Minister Santos", "Dr. Chen", "Mayor Okonjo", "Ms. Patel", "HUMANITARIAN"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
