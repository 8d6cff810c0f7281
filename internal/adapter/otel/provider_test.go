package otel_test

import (
	"bytes"
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	adapter "github.com/scgm/containergen/internal/adapter/otel"
)

func TestSetup_StdoutExporter(t *testing.T) {
	var out bytes.Buffer
	providers, err := adapter.Setup(context.Background(), adapter.Config{
		ServiceName: "test",
		Exporter:    adapter.ExporterStdout,
		Records:     3,
		Seed:        9,
		Output:      &out,
	})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "run")
	span.End()

	if err := providers.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte(`"run"`)) {
		t.Errorf("span not exported to the configured writer:\n%s", out.String())
	}
	if !bytes.Contains(out.Bytes(), []byte("containergen.seed")) {
		t.Errorf("run attributes missing from exported resource:\n%s", out.String())
	}
}

func TestSetup_NoneExporter(t *testing.T) {
	providers, err := adapter.Setup(context.Background(), adapter.Config{
		ServiceName: "test",
		Exporter:    adapter.ExporterNone,
	})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	if err := providers.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
}

func TestSetup_InvalidExporter(t *testing.T) {
	_, err := adapter.Setup(context.Background(), adapter.Config{
		ServiceName: "test",
		Exporter:    "invalid",
	})
	if err == nil {
		t.Fatal("expected error for invalid exporter")
	}
}

func TestNewResource_RunAttributes(t *testing.T) {
	res, err := adapter.NewResource(context.Background(), adapter.Config{
		ServiceName:    "containergen",
		ServiceVersion: "0.1.0",
		Records:        10500,
		Seed:           2025,
	})
	if err != nil {
		t.Fatalf("NewResource failed: %v", err)
	}

	set := res.Set()
	want := map[attribute.Key]attribute.Value{
		"service.name":         attribute.StringValue("containergen"),
		"containergen.records": attribute.IntValue(10500),
		"containergen.seed":    attribute.Int64Value(2025),
	}
	for key, value := range want {
		got, ok := set.Value(key)
		if !ok {
			t.Errorf("resource lacks %s", key)
			continue
		}
		if got.Emit() != value.Emit() {
			t.Errorf("%s = %v, want %v", key, got.Emit(), value.Emit())
		}
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg := adapter.ConfigFromEnv()

	if cfg.ServiceName != "containergen" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "containergen")
	}
	if cfg.ServiceVersion != "0.1.0" {
		t.Errorf("ServiceVersion = %q, want %q", cfg.ServiceVersion, "0.1.0")
	}
	if cfg.Exporter != adapter.ExporterNone {
		t.Errorf("Exporter = %q, want %q", cfg.Exporter, adapter.ExporterNone)
	}
}

func TestConfigFromEnv_CustomValues(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "custom-service")
	t.Setenv("OTEL_SERVICE_VERSION", "1.0.0")
	t.Setenv("OTEL_EXPORTER", "otlp")

	cfg := adapter.ConfigFromEnv()

	if cfg.ServiceName != "custom-service" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "custom-service")
	}
	if cfg.ServiceVersion != "1.0.0" {
		t.Errorf("ServiceVersion = %q, want %q", cfg.ServiceVersion, "1.0.0")
	}
	if cfg.Exporter != adapter.ExporterOTLP {
		t.Errorf("Exporter = %q, want %q", cfg.Exporter, adapter.ExporterOTLP)
	}
}
