package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/arturoeanton/go-xslt/xslt"
	"github.com/spf13/cobra"
)

var (
	transformInput       string
	transformOutput      string
	transformConfigPath  string
	transformInitialName string
	transformParams      []string
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Parse a source document and run it through the transformation engine",
	Long: "transform parses --input, runs it through the engine's built-in " +
		"template rules (no stylesheet compiler is part of this engine — see " +
		"DESIGN.md), and serializes the result to --output.\n\n" +
		"This exercises the full pipeline — document parsing, the matcher, the " +
		"output pipeline, and the serializer — without requiring a compiled " +
		"stylesheet, since the built-in rules alone (apply-templates over " +
		"children, copy text) are enough to drive it end to end. A real " +
		"deployment supplies its own *xslt.CompiledStylesheet from an external " +
		"compiler and calls xslt.Transform directly instead of this command.",
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().StringVar(&transformInput, "input", "", "source document path ('-' for stdin)")
	transformCmd.Flags().StringVar(&transformOutput, "output", "-", "result path ('-' for stdout)")
	transformCmd.Flags().StringVar(&transformConfigPath, "config", "", "runtime configuration file (YAML)")
	transformCmd.Flags().StringVar(&transformInitialName, "initial-template", "", "named entry template, as {uri}local or local")
	transformCmd.Flags().StringArrayVar(&transformParams, "param", nil, "top-level stylesheet parameter as name=value (repeatable)")
	_ = transformCmd.MarkFlagRequired("input")
}

func runTransform(cmd *cobra.Command, args []string) error {
	configPath, explicit, err := resolveConfigFile(transformConfigPath)
	if err != nil {
		return err
	}
	cfg, err := loadRunConfig(configPath, explicit)
	if err != nil {
		return err
	}

	paramFlags, err := parseParamFlags(transformParams)
	if err != nil {
		return err
	}
	for name, value := range cfg.Params {
		if _, overridden := paramFlags[name]; !overridden {
			paramFlags[name] = value
		}
	}

	src, err := openInput(transformInput)
	if err != nil {
		return err
	}
	defer src.Close()

	baseDir := "."
	if transformInput != "-" {
		baseDir = filepath.Dir(transformInput)
	}

	root, err := xslt.ParseDocument(src, transformInput)
	if err != nil {
		return err
	}

	sheet := xslt.NewCompiledStylesheet()
	sheet.BaseURI = cfg.BaseURI
	sheet.DefaultCollation = cfg.Collation

	dst, closeDst, err := openOutput(transformOutput)
	if err != nil {
		return err
	}
	defer closeDst()

	sink := xslt.NewPipeline(xslt.NewXMLSerializer(dst, sheet.GetOutput("")))

	initial := parseQNameFlag(transformInitialName)
	initialParams := make([]xslt.InitialParam, 0, len(paramFlags))
	for name, value := range paramFlags {
		initialParams = append(initialParams, xslt.InitialParam{
			Name:  xslt.QName{Local: name},
			Value: xslt.FromString(value),
		})
	}

	opts := []xslt.RunOption{
		xslt.WithDocuments(fileDocumentProvider{baseDir: baseDir}),
		xslt.WithResults(fileResultDestination{baseDir: baseDir}),
		xslt.WithRunRecoveryMode(parseRecoveryMode(cfg.RecoveryMode)),
		xslt.WithRunErrorListener(xslt.NewSlogListener(slog.Default())),
	}

	if err := xslt.Transform(sheet, root, initial, initialParams, sink, opts...); err != nil {
		return err
	}
	return sink.Flush()
}

func openInput(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

func openOutput(path string) (*os.File, func() error, error) {
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// parseQNameFlag accepts either "local" (no namespace) or "{uri}local",
// the Clark notation xslt.QName.String already renders — kept symmetric
// with it rather than inventing a second textual QName format.
func parseQNameFlag(s string) xslt.QName {
	if s == "" {
		return xslt.QName{}
	}
	if s[0] == '{' {
		if i := strings.IndexByte(s, '}'); i >= 0 {
			return xslt.QName{URI: s[1:i], Local: s[i+1:]}
		}
	}
	return xslt.QName{Local: s}
}

func parseRecoveryMode(s string) xslt.RecoveryMode {
	switch s {
	case "strict":
		return xslt.RecoveryStrict
	case "silent":
		return xslt.RecoverySilent
	default:
		return xslt.RecoveryRecover
	}
}
