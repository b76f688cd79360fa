package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	"github.com/jmespath/go-jmespath"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

func validateOutputFormat(format string) error {
	switch format {
	case "", constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, format)
	}
}

// render writes value in the selected output format. fill builds the table
// view; json and yaml are derived from the value's JSON encoding so that
// --query sees the same field names the API uses.
func render(cmd *cobra.Command, value interface{}, fill func(table *tablewriter.Table)) error {
	format := viper.GetString("output")

	err := validateOutputFormat(format)
	if err != nil {
		return err
	}

	query := viper.GetString("query")
	out := cmd.OutOrStdout()

	if format == constants.FormatTable && query == "" && fill != nil {
		table := tablewriter.NewWriter(out)
		fill(table)

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	}

	generic, err := toGeneric(value)
	if err != nil {
		return err
	}

	if query != "" {
		generic, err = jmespath.Search(query, generic)
		if err != nil {
			return fmt.Errorf("evaluating query %q: %w", query, err)
		}
	}

	if format == constants.FormatYAML {
		encoder := yaml.NewEncoder(out)
		defer encoder.Close()

		return encoder.Encode(generic)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

	return encoder.Encode(generic)
}

func toGeneric(value interface{}) (interface{}, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding output: %w", err)
	}

	var generic interface{}

	err = json.Unmarshal(raw, &generic)
	if err != nil {
		return nil, fmt.Errorf("decoding output: %w", err)
	}

	return generic, nil
}

// readRequestFile decodes a JSON or YAML request body from path, "-" for stdin.
func readRequestFile[T any](cmd *cobra.Command, path string) (*T, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // path is supplied by the user
	}

	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// YAML is a superset of JSON; go through JSON to honor the json tags.
	var generic interface{}

	err = yaml.Unmarshal(data, &generic)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidPayload, err)
	}

	raw, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidPayload, err)
	}

	var request T

	err = json.Unmarshal(raw, &request)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidPayload, err)
	}

	return &request, nil
}

// requireDate checks an optional YYYY-MM-DD flag value.
func requireDate(name, value string) error {
	if value == "" {
		return nil
	}

	_, err := time.Parse(dateLayout, value)
	if err != nil {
		return fmt.Errorf("--%s %q: %w", name, value, constants.ErrInvalidDate)
	}

	return nil
}

func formatMillis(millis int64) string {
	if millis == 0 {
		return constants.NotAvailable
	}

	return time.UnixMilli(millis).UTC().Format("2006-01-02 15:04:05")
}

func orNA(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

func truncate(value string, length int) string {
	runes := []rune(value)
	if len(runes) <= length {
		return value
	}

	return string(runes[:length-3]) + "..."
}

// confirm asks before a destructive action unless force is set.
func confirm(cmd *cobra.Command, force bool, prompt string) error {
	if force {
		return nil
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Type '%s' to confirm: ", prompt, constants.ConfirmationYes)

	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if strings.TrimSpace(strings.ToLower(answer)) != constants.ConfirmationYes {
		return constants.ErrOperationCancelled
	}

	return nil
}

func printResult(cmd *cobra.Command, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
