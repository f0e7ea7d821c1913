package tables

// RepairStatus values are part of the external contract, accents included.
type RepairStatus string

const (
	StatusInProgress RepairStatus = "en cours"
	StatusReady      RepairStatus = "prêt"
	StatusDelivered  RepairStatus = "livré"
)

var RepairStatuses = []RepairStatus{StatusInProgress, StatusReady, StatusDelivered}

func (s RepairStatus) IsValid() bool {
	switch s {
	case StatusInProgress, StatusReady, StatusDelivered:
		return true
	}
	return false
}

type Workshop string

const (
	WorkshopCentral  Workshop = "atelier central"
	WorkshopSetting  Workshop = "atelier sertissage"
	WorkshopExternal Workshop = "atelier externe"
)

var Workshops = []Workshop{WorkshopCentral, WorkshopSetting, WorkshopExternal}

func (w Workshop) IsValid() bool {
	switch w {
	case WorkshopCentral, WorkshopSetting, WorkshopExternal:
		return true
	}
	return false
}

type ProductType string

const (
	ProductRing      ProductType = "bague"
	ProductNecklace  ProductType = "collier"
	ProductBracelet  ProductType = "bracelet"
	ProductEarrings  ProductType = "boucles d'oreilles"
	ProductPendant   ProductType = "pendentif"
	ProductChain     ProductType = "chaîne"
	ProductChainLink ProductType = "gourmette"
	ProductWatch     ProductType = "montre"
	ProductOther     ProductType = "autre"
)

var ProductTypes = []ProductType{
	ProductRing, ProductNecklace, ProductBracelet, ProductEarrings,
	ProductPendant, ProductChain, ProductChainLink, ProductWatch, ProductOther,
}

func (p ProductType) IsValid() bool {
	for _, t := range ProductTypes {
		if t == p {
			return true
		}
	}
	return false
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employe"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}
