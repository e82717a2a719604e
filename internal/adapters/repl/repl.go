package repl

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"inventory-ledger/internal/app"
)

// Run starts the interactive REPL loop.
// It reads commands from reader, dispatches slash commands deterministically,
// and routes natural language input through the AI agent.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	fmt.Println("Inventory Ledger")
	fmt.Println("Describe a sale or purchase to record it, or use /help for commands.")
	fmt.Println(strings.Repeat("-", 70))

	errExit := fmt.Errorf("exit")

	dispatchSlash := func(input string) error {
		tokens := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "products", "stock":
			result, err := svc.ListProducts(ctx)
			if err != nil {
				return err
			}
			printProducts(result)

		case "sales":
			result, err := svc.ListSales(ctx)
			if err != nil {
				return err
			}
			printSales(result)

		case "purchases":
			result, err := svc.ListPurchases(ctx)
			if err != nil {
				return err
			}
			printPurchases(result)

		case "add-product":
			handleAddProduct(ctx, reader, svc)

		case "sell":
			handleRecordSale(ctx, reader, svc)

		case "buy":
			handleRecordPurchase(ctx, reader, svc)

		case "delete-sale":
			if len(args) < 1 {
				fmt.Println("Usage: /delete-sale <id>")
				return nil
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Println("Invalid sale id.")
				return nil
			}
			if err := svc.DeleteSale(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Sale %d deleted, stock restored.\n", id)

		case "delete-purchase":
			if len(args) < 1 {
				fmt.Println("Usage: /delete-purchase <id>")
				return nil
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Println("Invalid purchase id.")
				return nil
			}
			if err := svc.DeletePurchase(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Purchase %d deleted, stock adjusted.\n", id)

		case "report":
			if len(args) < 1 {
				fmt.Println("Usage: /report <YYYY-MM>")
				return nil
			}
			result, err := svc.GenerateReport(ctx, args[0])
			if err != nil {
				return err
			}
			printReport(result.Report)

		case "reports":
			result, err := svc.ListReports(ctx)
			if err != nil {
				return err
			}
			printReports(result)

		case "help":
			fmt.Println("Commands:")
			fmt.Println("  /products          list the catalog with stock levels")
			fmt.Println("  /sales             list recorded sales")
			fmt.Println("  /purchases         list recorded purchases")
			fmt.Println("  /add-product       add a catalog entry interactively")
			fmt.Println("  /sell              record a sale interactively")
			fmt.Println("  /buy               record a purchase interactively")
			fmt.Println("  /delete-sale <id>  delete a sale and restore stock")
			fmt.Println("  /delete-purchase <id>")
			fmt.Println("  /report <YYYY-MM>  generate the monthly profit report")
			fmt.Println("  /reports           list stored reports")
			fmt.Println("  /exit")
			fmt.Println("Anything else is sent to the AI assistant as a stock movement description.")

		case "exit", "quit":
			return errExit

		default:
			fmt.Printf("Unknown command: /%s (try /help)\n", cmd)
		}
		return nil
	}

	for {
		fmt.Print("\n> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if err := dispatchSlash(input); err != nil {
				if err == errExit {
					break
				}
				fmt.Printf("[REPL] Error: %v\n", err)
			}
			continue
		}

		handleNaturalLanguage(ctx, reader, svc, input)
	}
}

// handleNaturalLanguage routes free text through the agent and asks for
// confirmation before anything is written.
func handleNaturalLanguage(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, input string) {
	fmt.Println("[AI] Interpreting entry...")
	result, err := svc.InterpretEntry(ctx, input)
	if err != nil {
		fmt.Printf("[AI] Error: %v\n", err)
		return
	}
	if result.IsClarification {
		fmt.Printf("[AI] %s\n", result.ClarificationMessage)
		return
	}

	printEntry(result.Entry)
	fmt.Print("Record this entry? [y/N]: ")
	confirm, _ := reader.ReadString('\n')
	if strings.ToLower(strings.TrimSpace(confirm)) != "y" {
		fmt.Println("Discarded.")
		return
	}

	committed, err := svc.CommitEntry(ctx, *result.Entry)
	if err != nil {
		fmt.Printf("[REPL] Error recording entry: %v\n", err)
		return
	}
	if committed.Sale != nil {
		fmt.Printf("Sale recorded (ID: %d, total %s).\n", committed.Sale.ID, committed.Sale.TotalPrice.StringFixed(2))
	} else {
		fmt.Printf("Purchase recorded (ID: %d).\n", committed.Purchase.ID)
	}
}
