// Package routes names the query-string URLs of the HTML interface.
package routes

import "fmt"

const (
	Login   = "/?view=login"
	POS     = "/?view=pos"
	Kitchen = "/?view=kitchen"
	Admin   = "/?view=admin"

	POSSuccess = "/?view=pos&success=1"
)

func Print(orderID uint) string {
	return fmt.Sprintf("/?action=print&order_id=%d", orderID)
}

func KitchenStatus(orderID uint, status string) string {
	return fmt.Sprintf("/?view=kitchen&action=status&order_id=%d&new_status=%s", orderID, status)
}
