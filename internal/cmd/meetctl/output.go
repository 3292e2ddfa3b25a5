package meetctl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	meetapi "github.com/louisbranch/trackmeet/internal/services/meet/api/grpc/meet"
	"google.golang.org/grpc/metadata"
	"gopkg.in/yaml.v3"
)

// writeYAML prints value as YAML using its JSON field names.
func writeYAML(out io.Writer, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(generic); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return encoder.Close()
}

func withLocale(ctx context.Context, locale string) context.Context {
	if locale = strings.TrimSpace(locale); locale == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, meetapi.LocaleMetadataKey, locale)
}
