package console

import (
	"strings"

	"restaurant-pos/models"
	"restaurant-pos/services"
	"restaurant-pos/statemachine"

	"github.com/shopspring/decimal"
)

func (a *App) menuManagement() error {
	choice, err := a.choose("MENU MANAGEMENT",
		"Add Menu Item", "View All Menu Items", "View by Category", "Update Menu Item",
		"Delete Menu Item", "Update Item Availability", "Back to Main Menu")
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		return a.addMenuItem()
	case 2:
		return a.listMenu("ALL MENU ITEMS", services.MenuFilter{})
	case 3:
		category, err := a.readLine("Enter category: ")
		if err != nil {
			return err
		}
		return a.listMenu("MENU ITEMS - "+strings.ToUpper(category), services.MenuFilter{Category: category})
	case 4:
		return a.updateMenuItem()
	case 5:
		return a.deleteMenuItem()
	case 6:
		return a.updateAvailability()
	}
	return nil
}

func (a *App) readMenuInput(current *models.MenuItem) (services.MenuItemInput, error) {
	var in services.MenuItemInput
	keep := func(prompt, cur string) (string, error) {
		if current == nil {
			return a.readLine(prompt + ": ")
		}
		v, err := a.readLine("New " + strings.ToLower(prompt) + " (press Enter to keep current): ")
		if v == "" {
			v = cur
		}
		return v, err
	}

	var err error
	if in.Name, err = keep("Item name", nameOf(current)); err != nil {
		return in, err
	}
	if in.Category, err = keep("Category", categoryOf(current)); err != nil {
		return in, err
	}
	if current == nil {
		if in.Price, err = a.readDecimal("Price: $"); err != nil {
			return in, err
		}
	} else {
		in.Price = current.Price
		for {
			line, err := a.readLine("New price (press Enter to keep current): $")
			if err != nil {
				return in, err
			}
			if line == "" {
				break
			}
			if p, perr := decimal.NewFromString(line); perr == nil {
				in.Price = p
				break
			}
			a.println("Please enter a valid amount.")
		}
	}
	in.Description, err = keep("Description", descriptionOf(current))
	return in, err
}

func nameOf(m *models.MenuItem) string {
	if m == nil {
		return ""
	}
	return m.Name
}

func categoryOf(m *models.MenuItem) string {
	if m == nil {
		return ""
	}
	return m.Category
}

func descriptionOf(m *models.MenuItem) string {
	if m == nil {
		return ""
	}
	return m.Description
}

func (a *App) addMenuItem() error {
	in, err := a.readMenuInput(nil)
	if err != nil {
		return err
	}
	if _, err := a.svc.Menu.Add(a.ctx, a.sess, in); err != nil {
		a.report(err)
		return nil
	}
	a.println("Menu item added successfully!")
	return nil
}

func (a *App) listMenu(title string, f services.MenuFilter) error {
	items, err := a.svc.Menu.List(a.ctx, f)
	if err != nil {
		a.report(err)
		return nil
	}
	if len(items) == 0 {
		a.println("No menu items found.")
		return nil
	}
	a.println()
	a.println("=== " + title + " ===")
	for _, item := range items {
		a.printMenuItem(item)
	}
	return nil
}

func (a *App) lookupMenuItem(prompt string) (*models.MenuItem, error) {
	id, err := a.readID(prompt)
	if err != nil {
		return nil, err
	}
	item, err := a.svc.Menu.Get(a.ctx, id)
	if err != nil {
		a.report(err)
		return nil, nil
	}
	a.printf("Current item: ")
	a.printMenuItem(*item)
	return item, nil
}

func (a *App) updateMenuItem() error {
	item, err := a.lookupMenuItem("Enter item ID to update: ")
	if err != nil || item == nil {
		return err
	}
	in, err := a.readMenuInput(item)
	if err != nil {
		return err
	}
	if _, err := a.svc.Menu.Update(a.ctx, a.sess, item.ID, in); err != nil {
		a.report(err)
		return nil
	}
	a.println("Menu item updated successfully!")
	return nil
}

func (a *App) deleteMenuItem() error {
	item, err := a.lookupMenuItem("Enter item ID to delete: ")
	if err != nil || item == nil {
		return err
	}
	ok, err := a.confirm("Are you sure? (y/N): ")
	if err != nil || !ok {
		return err
	}
	if err := a.svc.Menu.Delete(a.ctx, a.sess, item.ID); err != nil {
		a.report(err)
		return nil
	}
	a.println("Menu item deleted successfully!")
	return nil
}

func (a *App) updateAvailability() error {
	item, err := a.lookupMenuItem("Enter item ID: ")
	if err != nil || item == nil {
		return err
	}
	available, err := a.confirm("Set as available? (y/n): ")
	if err != nil {
		return err
	}
	if _, err := a.svc.Menu.SetAvailability(a.ctx, a.sess, item.ID, available); err != nil {
		a.report(err)
		return nil
	}
	a.println("Item availability updated successfully!")
	return nil
}

func (a *App) tableManagement() error {
	choice, err := a.choose("TABLE MANAGEMENT",
		"Add Table", "View All Tables", "View Available Tables", "Update Table Status", "Back to Main Menu")
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		return a.addTable()
	case 2:
		return a.listTables(false)
	case 3:
		return a.listTables(true)
	case 4:
		return a.updateTableStatus()
	}
	return nil
}

func (a *App) addTable() error {
	number, err := a.readInt("Table number: ")
	if err != nil {
		return err
	}
	capacity, err := a.readInt("Capacity: ")
	if err != nil {
		return err
	}
	if _, err := a.svc.Tables.Add(a.ctx, a.sess, services.TableInput{Number: number, Capacity: capacity}); err != nil {
		a.report(err)
		return nil
	}
	a.println("Table added successfully!")
	return nil
}

func (a *App) listTables(availableOnly bool) error {
	var (
		tables []models.Table
		err    error
	)
	title := "ALL TABLES"
	if availableOnly {
		title = "AVAILABLE TABLES"
		tables, err = a.svc.Tables.ListAvailable(a.ctx)
	} else {
		tables, err = a.svc.Tables.List(a.ctx)
	}
	if err != nil {
		a.report(err)
		return nil
	}
	if len(tables) == 0 {
		if availableOnly {
			a.println("No available tables.")
		} else {
			a.println("No tables found.")
		}
		return nil
	}
	a.println()
	a.println("=== " + title + " ===")
	for _, t := range tables {
		a.printTable(t)
	}
	return nil
}

func (a *App) updateTableStatus() error {
	id, err := a.readID("Enter table ID: ")
	if err != nil {
		return err
	}
	a.println("Status options: AVAILABLE, RESERVED")
	status, err := a.readLine("Enter new status: ")
	if err != nil {
		return err
	}
	if _, err := a.svc.Tables.SetStatus(a.ctx, a.sess, id, models.TableStatus(strings.ToUpper(status))); err != nil {
		a.report(err)
		return nil
	}
	a.println("Table status updated successfully!")
	return nil
}

func (a *App) orderManagement() error {
	choice, err := a.choose("ORDER MANAGEMENT",
		"Create New Order", "Add Items to Order", "View All Orders", "Update Order Status",
		"View Order Details", "Back to Main Menu")
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		return a.createOrder()
	case 2:
		return a.addItemsToOrder()
	case 3:
		return a.listOrders()
	case 4:
		return a.updateOrderStatus()
	case 5:
		return a.orderDetails()
	}
	return nil
}

func (a *App) createOrder() error {
	if err := a.listTables(true); err != nil {
		return err
	}
	tableID, err := a.readID("Enter table ID: ")
	if err != nil {
		return err
	}
	name, err := a.readLine("Customer name: ")
	if err != nil {
		return err
	}
	order, err := a.svc.Orders.CreateOrder(a.ctx, a.sess, tableID, name)
	if err != nil {
		a.report(err)
		return nil
	}
	a.printf("Order created successfully! Order ID: %d\n", order.ID)
	return nil
}

func (a *App) addItemsToOrder() error {
	orderID, err := a.readID("Enter order ID: ")
	if err != nil {
		return err
	}
	order, err := a.svc.Orders.GetOrderWithItems(a.ctx, orderID)
	if err != nil {
		a.report(err)
		return nil
	}
	a.printf("Order details: Customer: %s, Table: %d, Status: %s\n", order.CustomerName, order.Table.Number, order.Status)

	for {
		items, err := a.svc.Menu.List(a.ctx, services.MenuFilter{AvailableOnly: true})
		if err != nil {
			a.report(err)
			return nil
		}
		if len(items) == 0 {
			a.println("No available menu items.")
			return nil
		}
		a.println()
		a.println("=== AVAILABLE MENU ITEMS ===")
		for _, item := range items {
			a.printMenuItem(item)
		}

		itemID, err := a.readInt("\nEnter menu item ID (0 to finish): ")
		if err != nil {
			return err
		}
		if itemID <= 0 {
			return nil
		}
		qty, err := a.readInt("Quantity: ")
		if err != nil {
			return err
		}
		order, err = a.svc.Orders.AddItemToOrder(a.ctx, a.sess, orderID, uint(itemID), qty)
		if err != nil {
			a.report(err)
			continue
		}
		a.printf("Item added to order successfully! Order total: $%s\n", order.TotalAmount.StringFixed(2))
	}
}

func (a *App) listOrders() error {
	orders, err := a.svc.Orders.ListOrders(a.ctx, services.OrderFilter{})
	if err != nil {
		a.report(err)
		return nil
	}
	if len(orders) == 0 {
		a.println("No orders found.")
		return nil
	}
	a.println()
	a.println("=== ALL ORDERS ===")
	for _, o := range orders {
		a.printOrderLine(o)
	}
	return nil
}

func (a *App) updateOrderStatus() error {
	orderID, err := a.readID("Enter order ID: ")
	if err != nil {
		return err
	}
	order, err := a.svc.Orders.GetOrderWithItems(a.ctx, orderID)
	if err != nil {
		a.report(err)
		return nil
	}
	nexts := statemachine.ValidTransitionsFrom(order.Status, statemachine.ActorFor(a.sess.Role))
	if len(nexts) == 0 {
		a.printf("Order %d is %s and can no longer change.\n", order.ID, order.Status)
		return nil
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	a.println("Status options: " + strings.Join(names, ", "))
	status, err := a.readLine("Enter new status: ")
	if err != nil {
		return err
	}
	if _, err := a.svc.Orders.UpdateOrderStatus(a.ctx, a.sess, orderID, models.OrderStatus(status)); err != nil {
		a.report(err)
		return nil
	}
	a.println("Order status updated successfully!")
	return nil
}

func (a *App) orderDetails() error {
	orderID, err := a.readID("Enter order ID: ")
	if err != nil {
		return err
	}
	order, err := a.svc.Orders.GetOrderWithItems(a.ctx, orderID)
	if err != nil {
		a.report(err)
		return nil
	}
	a.println()
	a.println("=== ORDER DETAILS ===")
	a.printf("Order ID: %d\n", order.ID)
	a.printf("Table: %d\n", order.Table.Number)
	a.printf("Customer: %s\n", order.CustomerName)
	a.printf("Status: %s\n", order.Status)
	a.printf("Order Time: %s\n", order.OrderTime.Format("2006-01-02 15:04:05"))
	a.println("\nItems:")
	if len(order.Items) == 0 {
		a.println("No items in this order.")
	} else {
		for _, it := range order.Items {
			a.printf("  %s x%d @ $%s = $%s\n", it.Name, it.Quantity, it.Price.StringFixed(2), it.LineTotal().StringFixed(2))
		}
		a.printf("\nTotal Amount: $%s\n", order.TotalAmount.StringFixed(2))
	}
	if len(order.StatusHistory) > 0 {
		a.println("\nHistory:")
		for _, h := range order.StatusHistory {
			from := string(h.FromStatus)
			if from == "" {
				from = "-"
			}
			a.printf("  %s -> %s %s\n", from, h.ToStatus, h.Note)
		}
	}
	return nil
}

func (a *App) billingSystem() error {
	choice, err := a.choose("BILLING SYSTEM",
		"Generate Bill", "View Bill", "Mark Bill as Paid", "Print Bill", "Back to Main Menu")
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		return a.generateBill()
	case 2:
		return a.viewBill()
	case 3:
		return a.markBillPaid()
	case 4:
		return a.printBill()
	}
	return nil
}

func (a *App) generateBill() error {
	orderID, err := a.readID("Enter order ID: ")
	if err != nil {
		return err
	}
	bill, err := a.svc.Billing.GenerateBill(a.ctx, a.sess, orderID)
	if err != nil {
		a.report(err)
		return nil
	}
	a.println("Bill generated successfully!")
	a.printf("Bill ID: %d, Total: $%s\n", bill.ID, bill.Total.StringFixed(2))
	return nil
}

func (a *App) viewBill() error {
	orderID, err := a.readID("Enter order ID: ")
	if err != nil {
		return err
	}
	bill, err := a.svc.Billing.GetBillForOrder(a.ctx, orderID)
	if err != nil {
		a.report(err)
		return nil
	}
	a.println()
	a.println("=== BILL DETAILS ===")
	a.printf("Bill ID: %d\n", bill.ID)
	a.printf("Order ID: %d\n", bill.OrderID)
	a.printf("Subtotal: $%s\n", bill.Subtotal.StringFixed(2))
	a.printf("Tax: $%s\n", bill.Tax.StringFixed(2))
	a.printf("Total: $%s\n", bill.Total.StringFixed(2))
	a.printf("Payment Status: %s\n", bill.PaymentStatus)
	a.printf("Bill Time: %s\n", bill.BillTime.Format("2006-01-02 15:04:05"))
	return nil
}

func (a *App) markBillPaid() error {
	billID, err := a.readID("Enter bill ID: ")
	if err != nil {
		return err
	}
	if _, err := a.svc.Billing.MarkBillPaid(a.ctx, a.sess, billID); err != nil {
		a.report(err)
		return nil
	}
	a.println("Bill marked as paid successfully!")
	return nil
}

func (a *App) printBill() error {
	orderID, err := a.readID("Enter order ID: ")
	if err != nil {
		return err
	}
	bill, err := a.svc.Billing.GetBillForOrder(a.ctx, orderID)
	if err != nil {
		a.report(err)
		return nil
	}
	order, err := a.svc.Orders.GetOrderWithItems(a.ctx, orderID)
	if err != nil {
		a.report(err)
		return nil
	}
	a.println()
	return services.WriteReceipt(a.out, bill, order)
}

func (a *App) userManagement() error {
	choice, err := a.choose("USER MANAGEMENT", "Register User", "View All Users", "Back to Main Menu")
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		return a.registerUser()
	case 2:
		users, err := a.svc.Users.List(a.ctx, a.sess)
		if err != nil {
			a.report(err)
			return nil
		}
		a.println()
		a.println("=== ALL USERS ===")
		for _, u := range users {
			a.printf("ID: %d | %s | %s\n", u.ID, u.Username, u.Role)
		}
	}
	return nil
}
