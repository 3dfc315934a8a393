package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edgeflare/supago/pkg/postgrest"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Query tables through the REST API",
	Long:  `Runs select, insert and delete operations against PostgREST tables`,
}

var selectCmd = &cobra.Command{
	Use:   "select <table>",
	Short: "Select rows from a table",
	Args:  cobra.ExactArgs(1),
	Run:   runSelect,
}

var insertCmd = &cobra.Command{
	Use:   "insert <table>",
	Short: "Insert a row into a table",
	Args:  cobra.ExactArgs(1),
	Run:   runInsert,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <table>",
	Short: "Delete rows matching a column value",
	Args:  cobra.ExactArgs(1),
	Run:   runDelete,
}

func init() {
	f := selectCmd.Flags()
	f.StringP("columns", "c", "*", "Comma-separated columns to return")
	f.StringArrayP("filter", "f", nil, "Filter as column.op=value (eq, neq, gt, lt, gte, lte)")
	f.String("order", "", "Order as column.asc or column.desc")
	f.Int("limit", 0, "Maximum number of rows")
	f.Int("offset", 0, "Number of rows to skip")
	f.Bool("count", false, "Request the exact total row count")

	insertCmd.Flags().StringP("data", "d", "", "Row as a JSON object")

	deleteCmd.Flags().String("column", "id", "Column to match")
	deleteCmd.Flags().String("value", "", "Value to match")

	restCmd.AddCommand(selectCmd, insertCmd, deleteCmd)
	rootCmd.AddCommand(restCmd)
}

func runSelect(cmd *cobra.Command, args []string) {
	client := newClient()
	f := cmd.Flags()

	columns, _ := f.GetString("columns")
	qb := client.DB.Select(args[0])
	if columns != "" && columns != "*" {
		qb = qb.Columns(strings.Split(columns, ",")...)
	}

	filters, _ := f.GetStringArray("filter")
	for _, filter := range filters {
		fl, err := parseFilter(filter)
		if err != nil {
			log.Fatalf("Invalid filter %q: %v", filter, err)
		}
		qb = qb.Filter(fl)
	}

	if order, _ := f.GetString("order"); order != "" {
		column, dir, ok := strings.Cut(order, ".")
		if !ok || (dir != "asc" && dir != "desc") {
			log.Fatalf("Invalid order %q: want column.asc or column.desc", order)
		}
		qb = qb.Order(column, dir == "asc")
	}
	if limit, _ := f.GetInt("limit"); limit > 0 {
		qb = qb.Limit(limit)
	}
	if offset, _ := f.GetInt("offset"); offset > 0 {
		qb = qb.Offset(offset)
	}

	ctx := context.Background()
	if count, _ := f.GetBool("count"); count {
		rows, total, err := qb.Count().ExecuteWithCount(ctx)
		if err != nil {
			log.Fatalf("Select failed: %v", err)
		}
		printRows(rows)
		fmt.Fprintf(os.Stderr, "total: %d\n", total)
		return
	}

	rows, err := qb.Execute(ctx)
	if err != nil {
		log.Fatalf("Select failed: %v", err)
	}
	printRows(rows)
}

func runInsert(cmd *cobra.Command, args []string) {
	client := newClient()

	data, _ := cmd.Flags().GetString("data")
	var row map[string]any
	if err := json.Unmarshal([]byte(data), &row); err != nil {
		log.Fatalf("Invalid --data: %v", err)
	}

	id, err := client.DB.Insert(context.Background(), args[0], row)
	if err != nil {
		log.Fatalf("Insert failed: %v", err)
	}
	fmt.Println(id)
}

func runDelete(cmd *cobra.Command, args []string) {
	client := newClient()

	column, _ := cmd.Flags().GetString("column")
	value, _ := cmd.Flags().GetString("value")
	if value == "" {
		log.Fatal("--value is required")
	}

	if err := client.DB.DeleteByColumn(context.Background(), args[0], column, value); err != nil {
		log.Fatalf("Delete failed: %v", err)
	}
	fmt.Println("deleted")
}

// parseFilter turns "age.gte=21" into a postgrest.Filter.
func parseFilter(s string) (postgrest.Filter, error) {
	left, value, ok := strings.Cut(s, "=")
	if !ok {
		return postgrest.Filter{}, fmt.Errorf("missing '='")
	}
	column, opCode, ok := strings.Cut(left, ".")
	if !ok {
		return postgrest.Filter{}, fmt.Errorf("missing operator")
	}

	var op postgrest.Operator
	switch opCode {
	case "eq":
		op = postgrest.Equals
	case "neq":
		op = postgrest.NotEquals
	case "gt":
		op = postgrest.GreaterThan
	case "lt":
		op = postgrest.LessThan
	case "gte":
		op = postgrest.GreaterThanOrEquals
	case "lte":
		op = postgrest.LessThanOrEquals
	default:
		return postgrest.Filter{}, fmt.Errorf("unknown operator %q", opCode)
	}
	return postgrest.NewFilter(column, op, value), nil
}

func printRows(rows []json.RawMessage) {
	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		log.Fatalf("Failed to render rows: %v", err)
	}
	fmt.Println(string(out))
}
