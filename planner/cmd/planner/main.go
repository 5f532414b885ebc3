// Планировщик VTO: HTTP/gRPC/WebSocket сервер и утилиты командной строки.
//
// @title Dental VTO Planner API
// @version 1.0
// @description Расчет визуальной цели лечения (VTO) по методике McLaughlin/Bennett/Trevisi.
// @contact.name API Support
// @contact.email support@dental-vto.local
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /
// @schemes http
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Krimson/dental-vto/planner/internal/vto"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCommand собирает дерево команд planner
func rootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "planner",
		Short:        "Dental VTO planner",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to planner.yaml")

	rootCmd.AddCommand(
		serveCommand(&configPath),
		calcCommand(),
		tablesCommand(),
	)

	return rootCmd
}

// newEngine создает движок из файла таблиц или со встроенными значениями
func newEngine(tablesPath string) (*vto.Engine, error) {
	if tablesPath == "" {
		return vto.NewEngine(nil)
	}

	tables, err := vto.LoadTables(tablesPath)
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	log.Printf("[INFO] Reference tables loaded from %s", tablesPath)

	return vto.NewEngine(tables)
}
