package training

import (
	"strings"
	"testing"

	"github.com/decisionscients/mlstudio/pkg/errors"
)

func validConfig() *Config {
	return &Config{
		Epochs:       100,
		BatchSize:    32,
		LearningRate: 0.01,
		Metric:       "mse",
	}
}

func TestConfigValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestConfigValidateLearningRate(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		ok   bool
	}{
		{"interior", 0.5, true},
		{"upper bound", 1, true},
		{"zero", 0, false},
		{"negative", -0.1, false},
		{"above one", 1.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.LearningRate = tt.rate
			err := c.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error = %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestConfigValidateAggregatesViolations(t *testing.T) {
	c := validConfig()
	c.Epochs = 0
	c.Metric = "accuracy"

	err := c.Validate()
	if err == nil {
		t.Fatal("expected a validation error")
	}
	var verr *errors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if len(verr.Messages) < 2 {
		t.Errorf("messages = %v, want both violations reported", verr.Messages)
	}
	joined := strings.Join(verr.Messages, " ")
	if !strings.Contains(joined, "Epochs") || !strings.Contains(joined, "Metric") {
		t.Errorf("messages must name both attributes: %v", verr.Messages)
	}
}

func TestConfigEarlyStopGating(t *testing.T) {
	// 早期終了が無効なら忍耐パラメータは検査されない
	c := validConfig()
	c.Patience = 0
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	// 有効にすると同じ値が違反になる
	c.EarlyStop = true
	if err := c.Validate(); err == nil {
		t.Error("zero patience must fail when early stopping is enabled")
	}

	// 忍耐はエポック数（遅延束縛参照）より小さくなければならない
	c.Patience = c.Epochs
	if err := c.Validate(); err == nil {
		t.Error("patience equal to epochs must fail")
	}

	c.Patience = 10
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
