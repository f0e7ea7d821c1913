package services

import (
	"bijouterie_server/structs/tables"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func status(s tables.RepairStatus) *tables.RepairStatus {
	return &s
}

func TestDecideNotification(t *testing.T) {
	cases := []struct {
		name     string
		previous *tables.RepairStatus
		next     tables.RepairStatus
		phone    string
		want     NotificationKind
	}{
		{"create with phone", nil, tables.StatusInProgress, "0612345678", NotifyIntake},
		{"create ready with phone", nil, tables.StatusReady, "0612345678", NotifyIntake},
		{"create without phone", nil, tables.StatusInProgress, "", NotifyNone},
		{"in progress to ready", status(tables.StatusInProgress), tables.StatusReady, "0612345678", NotifyReady},
		{"delivered to ready", status(tables.StatusDelivered), tables.StatusReady, "0612345678", NotifyReady},
		{"ready to ready", status(tables.StatusReady), tables.StatusReady, "0612345678", NotifyNone},
		{"ready to delivered", status(tables.StatusReady), tables.StatusDelivered, "0612345678", NotifyNone},
		{"in progress unchanged", status(tables.StatusInProgress), tables.StatusInProgress, "0612345678", NotifyNone},
		{"to ready without phone", status(tables.StatusInProgress), tables.StatusReady, " ", NotifyNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DecideNotification(tc.previous, tc.next, tc.phone))
		})
	}
}

func TestReadyMessage(t *testing.T) {
	msg := ReadyMessage("Ben Daoud Bijouterie", "Ahmed Tazi", decimal.NewFromInt(250))

	assert.True(t, strings.HasPrefix(msg, "Bonjour Ahmed Tazi,\nBen Daoud Bijouterie vous informe"))
	assert.Contains(t, msg, "au prix de 250 DH.")
	assert.True(t, strings.HasSuffix(msg, "Merci.\nBen Daoud Bijouterie"))

	free := ReadyMessage("Ben Daoud Bijouterie", "Ahmed Tazi", decimal.Zero)
	assert.Contains(t, free, "le recuperer gratuit.")
}

func TestItemsTotal(t *testing.T) {
	items := []tables.Item{
		{ItemPrice: decimal.RequireFromString("250")},
		{ItemPrice: decimal.RequireFromString("99.50")},
		{},
	}
	assert.True(t, ItemsTotal(items).Equal(decimal.RequireFromString("349.5")))
	assert.True(t, ItemsTotal(nil).IsZero())
}
