// Package cli implements the seqscore command line tool.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sysguard/seqscore/internal/domain/port"
	"github.com/sysguard/seqscore/internal/domain/service"
	"github.com/sysguard/seqscore/internal/infrastructure/artifact"
	"github.com/sysguard/seqscore/internal/infrastructure/ml"
	"github.com/sysguard/seqscore/pkg/observability"
)

// Viper keys, also the flag names. Environment variables use the SEQSCORE_
// prefix with dashes replaced by underscores.
const (
	keyConfig         = "config"
	keyArtifactDir    = "artifact-dir"
	keyArtifactPrefix = "artifact-prefix"
	keyArtifactPath   = "artifact-path"
	keyLength         = "length"
	keyFeaturePrefix  = "feature-prefix"
	keyStrict         = "strict"
	keyLogLevel       = "log-level"
)

type app struct {
	v      *viper.Viper
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewRootCommand builds the seqscore command tree.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "seqscore",
		Short: "Score syscall sequences with a random forest model",
		Long: `seqscore loads a PMML random forest exported from scikit-learn and returns
the probability that a comma-separated syscall sequence is malicious.

The model is either a fixed file (--artifact-path with --length) or the first
file named random_forest_model_<length> found in --artifact-dir.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return a.initConfig() },
	}

	flags := root.PersistentFlags()
	flags.String(keyConfig, "", "config file (yaml, json or toml)")
	flags.String(keyArtifactDir, artifact.DefaultDir, "directory searched for the model")
	flags.String(keyArtifactPrefix, artifact.DefaultPrefix, "model file name prefix")
	flags.String(keyArtifactPath, "", "fixed model file; disables directory discovery")
	flags.Int(keyLength, artifact.DefaultExpectedLength, "sequence length of the fixed model")
	flags.String(keyFeaturePrefix, ml.DefaultFeaturePrefix, "feature name prefix used by the model")
	flags.Bool(keyStrict, false, "reject sequences with empty tokens")
	flags.String(keyLogLevel, "WARNING", "log level (DEBUG, INFO, WARNING, ERROR)")
	_ = a.v.BindPFlags(flags)

	a.v.SetEnvPrefix("SEQSCORE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(a.newScoreCommand(), a.newResolveCommand(), a.newDevCertsCommand())
	return root
}

func (a *app) initConfig() error {
	cfgFile := a.v.GetString(keyConfig)
	if cfgFile == "" {
		return nil
	}
	a.v.SetConfigFile(cfgFile)
	if err := a.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	return nil
}

func (a *app) logger() *slog.Logger {
	return observability.InitLogger(observability.LogConfig{
		Output: a.stderr,
		Level:  a.v.GetString(keyLogLevel),
		Format: "text",
	})
}

func (a *app) resolver() (port.ArtifactResolver, error) {
	if path := a.v.GetString(keyArtifactPath); path != "" {
		return artifact.NewFixedResolver(path, a.v.GetInt(keyLength))
	}
	return artifact.NewDirectoryResolver(a.v.GetString(keyArtifactDir), a.v.GetString(keyArtifactPrefix)), nil
}

func (a *app) scorer(logger *slog.Logger) (*service.SequenceScorer, error) {
	resolver, err := a.resolver()
	if err != nil {
		return nil, err
	}
	return service.NewSequenceScorer(
		resolver,
		ml.NewPMMLLoader(a.v.GetString(keyFeaturePrefix)),
		logger,
		service.WithStrictSequences(a.v.GetBool(keyStrict)),
	), nil
}
