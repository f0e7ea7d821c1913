package services

import (
	"bijouterie_server/lib"
	"bijouterie_server/structs/tables"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type NotificationKind int

const (
	NotifyNone NotificationKind = iota
	NotifyIntake
	NotifyReady
)

func (k NotificationKind) String() string {
	switch k {
	case NotifyIntake:
		return "intake"
	case NotifyReady:
		return "ready"
	}
	return "none"
}

// DecideNotification picks the message owed to the client after a save.
// previous is nil on creation. The ready message is edge triggered: it fires only
// when the status moves into prêt, never when an already ready repair is saved again.
func DecideNotification(previous *tables.RepairStatus, next tables.RepairStatus, phone string) NotificationKind {
	if strings.TrimSpace(phone) == "" {
		return NotifyNone
	}

	if previous == nil {
		return NotifyIntake
	}

	if *previous != tables.StatusReady && next == tables.StatusReady {
		return NotifyReady
	}
	return NotifyNone
}

func IntakeMessage(clientName string) string {
	return fmt.Sprintf("Bonjour %s, votre réparation a bien été enregistrée. Nous vous tiendrons informé de l'avancement.", clientName)
}

func ReadyMessage(shopName, clientName string, total decimal.Decimal) string {
	price := "gratuit"
	if total.IsPositive() {
		price = "au prix de " + lib.FormatAmount(total) + " DH"
	}

	return fmt.Sprintf("Bonjour %s,\n%s vous informe que votre article est pret. Vous pouvez passer le recuperer %s.\nMerci.\n%s",
		clientName, shopName, price, shopName)
}

// ItemsTotal sums the per-item prices, which is what the receipt and the ready message show.
func ItemsTotal(items []tables.Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.ItemPrice)
	}
	return total
}
