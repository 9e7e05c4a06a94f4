package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/camelinx/cidr_tree"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	buildVersion = "unknown"
	buildDate    = "unknown"
	envPrefix    = "CIDR_TREE"

	tableFile string
	logLevel  string
	useV6     bool
	dumpTable bool
)

// rootCmd represents the root command
var rootCmd = &cobra.Command{
	Use:   "cidr-tree [flags] [address ...]",
	Short: "Load a CIDR table and run longest-prefix lookups against it",
	RunE: func(_ *cobra.Command, args []string) error {
		return run(args)
	},
}

// initConfig binds flags to ENV variables with the CIDR_TREE prefix.
func initConfig() {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	bindFlags(rootCmd, v)

	initLogger()
}

func initLogger() {
	ll, err := log.ParseLevel(logLevel)
	if err != nil {
		ll = log.ErrorLevel
	}
	log.SetLevel(ll)
	log.SetFormatter(&log.TextFormatter{DisableColors: false, FullTimestamp: true, PadLevelText: true, DisableQuote: true})
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		_ = v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix))

		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			_ = cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val))
		}
	})
}

func newTree() cidr_tree.CidrTree[string] {
	if useV6 {
		return cidr_tree.NewV6Tree[string]()
	}
	return cidr_tree.NewV4Tree[string]()
}

// loadTable reads entries of the form "block[,value]" where block is a CIDR
// block, a plain address or a "start-end" range. Lines starting with '#'
// are skipped. A missing value defaults to the block string itself.
func loadTable(ctx context.Context, tree cidr_tree.CidrTree[string], path string) error {
	tlog := log.WithField("component", "cidr-tree.Loader")

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "cannot open table file %s", path)
	}
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lines++
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		block, value := line, line
		if comma := strings.IndexByte(line, ','); comma != -1 {
			block = strings.TrimSpace(line[:comma])
			value = strings.TrimSpace(line[comma+1:])
		}

		res, err := tree.Insert(ctx, block, value)
		if err != nil {
			return errors.Wrapf(err, "line %d: cannot insert %s", lines, block)
		}

		tlog.WithField("block", block).Debugf("inserted with result %v", res)
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "cannot read table file %s", path)
	}

	tlog.Infof("loaded %d blocks from %s", tree.GetBlocksCount(), path)
	return nil
}

func run(queries []string) error {
	ctx := context.Background()
	rlog := log.WithField("component", "cidr-tree.Lookup")

	tree := newTree()
	if tableFile != "" {
		if err := loadTable(ctx, tree, tableFile); err != nil {
			return err
		}
	}

	for _, query := range queries {
		res, value, err := tree.Search(ctx, query)
		switch {
		case err != nil:
			rlog.WithField("address", query).Errorf("lookup failed: %v", err)
		case res == cidr_tree.Match:
			fmt.Printf("%s: %s\n", query, value)
		default:
			fmt.Printf("%s: no match\n", query)
		}
	}

	if dumpTable {
		blocks, err := tree.Dump(ctx)
		if err != nil {
			return errors.Wrap(err, "cannot dump table")
		}

		out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(blocks, "", "    ")
		if err != nil {
			return errors.Wrap(err, "cannot marshal table")
		}

		fmt.Printf("%s\n", out)
	}

	return nil
}

func main() {
	log.Infof("starting cidr-tree version: [%s] build date: %s", buildVersion, buildDate)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&tableFile, "table", "", "table file with one block[,value] entry per line")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "log level (debug, info, warning, error)")
	rootCmd.PersistentFlags().BoolVar(&useV6, "ipv6", false, "treat the table and queries as IPv6")
	rootCmd.PersistentFlags().BoolVar(&dumpTable, "dump", false, "dump the coalesced table as JSON")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
