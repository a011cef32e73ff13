package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// defaultMigrationName is used when the operator gives no name.
const defaultMigrationName = "schema change"

var (
	configPath string
	envName    string
	dryRun     bool
)

var rootCmd = &cobra.Command{
	Use:   "schemaplan",
	Short: "Compile schema diff plans into Rails migrations",
}

var generateCmd = &cobra.Command{
	Use:   "generate [name]",
	Short: "Translate the pending schema diff into a migration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&configPath, "config", "schemaplan.toml", "path to TOML config file")
	generateCmd.Flags().StringVar(&envName, "env", "", "environment passed to the diff tool (overrides config)")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the migration without writing it")
	rootCmd.AddCommand(generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	name := defaultMigrationName
	if len(args) > 0 {
		name = args[0]
	}

	env := cfg.Environment
	if envName != "" {
		env = envName
	}

	// Optional .env next to the config so the diff tool inherits database
	// credentials the way the operator's shell would provide them.
	if err := godotenv.Load(cfg.resolvePath(".env")); err == nil {
		log.Printf("loaded environment from .env")
	}

	return generate(context.Background(), cfg, name, env, execDiffSource(cfg.Diff), dryRun)
}

// generate runs the full pipeline: diff → extract → classify → render →
// assemble → write. The diff source is injected so tests run on canned
// output without spawning a process.
func generate(ctx context.Context, cfg *Config, name, env string, source diffSource, dryRun bool) error {
	log.Printf("requesting schema diff for environment %q...", env)
	output, err := source(ctx, env)
	if err != nil {
		return err
	}

	stmts := extractStatements(output, cfg.Diff.Marker)
	if len(stmts) == 0 {
		log.Printf("no schema changes detected; nothing to generate")
		return nil
	}

	ops := make([]ClassifiedOperation, len(stmts))
	fallbacks := 0
	for i, s := range stmts {
		ops[i] = classify(s)
		if ops[i].Kind == OpUnclassified {
			fallbacks++
		}
		log.Printf("  %d. %s", s.Position, summarizeOperation(ops[i]))
	}
	log.Printf("%d statement(s), %d verbatim fallback(s)", len(ops), fallbacks)

	types := defaultTypeMap().withOverrides(cfg.TypeMapping.Overrides)
	rendered := make([]string, len(ops))
	for i, op := range ops {
		rendered[i] = renderOperation(op, types)
	}

	art, ok := assembleMigration(name, cfg.MigrationVersion, rendered)
	if !ok {
		log.Printf("no operations to assemble; nothing to generate")
		return nil
	}

	if dryRun {
		log.Printf("dry run; migration not written")
		fmt.Println(art.Body)
		return nil
	}

	path, err := writeMigration(cfg.resolvePath(cfg.MigrationsDir), art, time.Now())
	if err != nil {
		return err
	}
	log.Printf("wrote %s", path)
	fmt.Println(path)
	fmt.Println(art.Body)
	return nil
}
