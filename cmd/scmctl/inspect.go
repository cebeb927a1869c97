package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/NahomAnteneh/scm-predictor/internal/model"
)

type inspectReport struct {
	Path         string            `yaml:"path"`
	FeatureNames string            `yaml:"feature_names,omitempty"`
	Kind         string            `yaml:"kind"`
	Features     []string          `yaml:"features"`
	Fingerprint  string            `yaml:"fingerprint"`
	Metadata     map[string]string `yaml:"metadata,omitempty"`
}

func newInspectCmd() *cobra.Command {
	var (
		modelPath    string
		featuresPath string
		evaluate     bool
		flags        inputFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load a model artifact locally and describe it",
		Long: `Loads the artifact the same way the server does and prints its kind, column layout
and fingerprint. With --evaluate one shipment is scored offline.`,
		Example: `  scmctl inspect --model models/model_scm.json
  scmctl inspect --evaluate --days 0 --mode "First Class"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.Load(modelPath, featuresPath)
			if err != nil {
				return err
			}

			report := inspectReport{
				Path:         m.Path,
				FeatureNames: m.FeatureNamesPath,
				Kind:         m.Classifier.Kind(),
				Features:     m.FeatureNames(),
				Fingerprint:  m.Fingerprint,
				Metadata:     m.Metadata,
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(report); err != nil {
				return err
			}
			if err := enc.Close(); err != nil {
				return err
			}

			if !evaluate {
				return nil
			}

			rec, err := flags.input(cmd).Encode()
			if err != nil {
				return err
			}
			v, err := m.Assess(rec)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.Headline())
			printVerdict(cmd, v)
			return nil
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "models/model_scm.json", "Model artifact path")
	cmd.Flags().StringVar(&featuresPath, "features", "models/feature_names.json", "Feature names path, ignored when missing")
	cmd.Flags().BoolVar(&evaluate, "evaluate", false, "Score one shipment with the loaded artifact")
	addInputFlags(cmd, &flags)
	return cmd
}
