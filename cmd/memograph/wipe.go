package memograph

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/memograph/memograph/pkg/config"
	"github.com/memograph/memograph/pkg/factstore"
)

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all nodes and edges in the configured graph",
	Long: `Delete every node and edge in the configured graph. This is
irreversible. The command prompts for confirmation unless --yes is given.`,
	RunE: runWipe,
}

var wipeYes bool

func init() {
	rootCmd.AddCommand(wipeCmd)

	wipeCmd.Flags().BoolVar(&wipeYes, "yes", false, "Skip the confirmation prompt")
	wipeCmd.Flags().String("db-driver", "falkordb", "Database driver (falkordb, neo4j)")
	wipeCmd.Flags().String("db-host", "localhost", "Database host")
	wipeCmd.Flags().Int("db-port", 6379, "Database port")
	wipeCmd.Flags().String("db-graph", "fact_memory", "Graph name")
}

func runWipe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("db-driver") {
		cfg.Database.Driver, _ = cmd.Flags().GetString("db-driver")
	}
	if cmd.Flags().Changed("db-host") {
		cfg.Database.Host, _ = cmd.Flags().GetString("db-host")
	}
	if cmd.Flags().Changed("db-port") {
		cfg.Database.Port, _ = cmd.Flags().GetInt("db-port")
	}
	if cmd.Flags().Changed("db-graph") {
		cfg.Database.Graph, _ = cmd.Flags().GetString("db-graph")
	}

	if !wipeYes {
		fmt.Printf("This deletes every record in graph %q on %s:%d. Type 'yes' to continue: ",
			cfg.Database.Graph, cfg.Database.Host, cfg.Database.Port)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			fmt.Println("Aborted")
			return nil
		}
	}

	ctx := context.Background()
	store, err := factstore.New(ctx, factstore.Config{
		Backend:  cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		Graph:    cfg.Database.Graph,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer store.Close(ctx)

	if err := store.Driver().Wipe(ctx); err != nil {
		return fmt.Errorf("wipe failed: %w", err)
	}

	fmt.Printf("Graph %q wiped\n", cfg.Database.Graph)
	return nil
}
