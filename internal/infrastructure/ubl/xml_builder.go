// Package ubl construit l'export XML UBL 2.1 des factures (échange avec les
// logiciels comptables et archivage).
package ubl

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	appbilling "github.com/facturati/facturati-api/internal/application/billing"
	"github.com/facturati/facturati-api/internal/domain/entity"
)

// Namespaces officiels UBL 2.1.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

var _ appbilling.InvoiceXMLBuilder = (*XMLBuilder)(nil)

// XMLBuilder construit le document UBL Invoice 2.1 (sans signature).
type XMLBuilder struct{}

// NewXMLBuilder crée le builder.
func NewXMLBuilder() *XMLBuilder {
	return &XMLBuilder{}
}

// BuildInvoiceXML génère les octets du document Invoice UBL 2.1.
func (b *XMLBuilder) BuildInvoiceXML(
	invoice *entity.Invoice,
	company *entity.Company,
	client *entity.Client,
	lines []appbilling.DocumentLine,
	currency string,
) ([]byte, error) {
	if invoice == nil || company == nil {
		return nil, fmt.Errorf("ubl: invoice et company sont requis")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "UBLVersionID", "2.1")
	cbc(root, "ID", invoice.Number)
	cbc(root, "IssueDate", invoice.Date.Format("2006-01-02"))
	if invoice.DueDate != nil {
		cbc(root, "DueDate", invoice.DueDate.Format("2006-01-02"))
	}
	cbc(root, "InvoiceTypeCode", "380") // facture commerciale
	cbc(root, "DocumentCurrencyCode", currency)
	cbc(root, "LineCountNumeric", fmt.Sprintf("%d", len(lines)))

	b.writeParty(root, "AccountingSupplierParty", company.Name, company.ICE, company.Address, company.City)
	if client != nil {
		b.writeParty(root, "AccountingCustomerParty", client.Name, client.ICE, client.Address, client.City)
	} else {
		// Client supprimé après facturation : partie vide plutôt qu'un export
		// en échec.
		b.writeParty(root, "AccountingCustomerParty", "", "", "", "")
	}

	taxTotal := root.CreateElement("cac:TaxTotal")
	amount(taxTotal, "cbc:TaxAmount", invoice.TotalTVA, currency)

	monetary := root.CreateElement("cac:LegalMonetaryTotal")
	amount(monetary, "cbc:LineExtensionAmount", invoice.TotalHT, currency)
	amount(monetary, "cbc:TaxExclusiveAmount", invoice.TotalHT, currency)
	amount(monetary, "cbc:TaxInclusiveAmount", invoice.TotalTTC, currency)
	amount(monetary, "cbc:PayableAmount", invoice.TotalTTC, currency)

	for i, l := range lines {
		line := root.CreateElement("cac:InvoiceLine")
		cbc(line, "cbc:ID", fmt.Sprintf("%d", i+1))
		qty := line.CreateElement("cbc:InvoicedQuantity")
		qty.SetText(l.Quantity.StringFixed(3))
		amount(line, "cbc:LineExtensionAmount", l.TotalHT, currency)

		item := line.CreateElement("cac:Item")
		cbc(item, "cbc:Description", l.Description)
		taxCat := item.CreateElement("cac:ClassifiedTaxCategory")
		cbc(taxCat, "cbc:Percent", l.TaxRate.Mul(decimal.NewFromInt(100)).StringFixed(2))

		price := line.CreateElement("cac:Price")
		amount(price, "cbc:PriceAmount", l.UnitPrice, currency)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

// writeParty écrit un bloc partie (émetteur ou client).
func (b *XMLBuilder) writeParty(root *etree.Element, name, partyName, ice, address, city string) {
	wrapper := root.CreateElement("cac:" + name)
	party := wrapper.CreateElement("cac:Party")

	pn := party.CreateElement("cac:PartyName")
	cbc(pn, "cbc:Name", partyName)

	if ice != "" {
		taxScheme := party.CreateElement("cac:PartyTaxScheme")
		cbc(taxScheme, "cbc:CompanyID", ice)
	}
	if address != "" || city != "" {
		postal := party.CreateElement("cac:PostalAddress")
		cbc(postal, "cbc:StreetName", address)
		cbc(postal, "cbc:CityName", city)
	}
}

func cbc(parent *etree.Element, tag, value string) {
	el := parent.CreateElement(tag)
	el.SetText(value)
}

func amount(parent *etree.Element, tag string, v decimal.Decimal, currency string) {
	el := parent.CreateElement(tag)
	el.CreateAttr("currencyID", currency)
	el.SetText(v.StringFixed(2))
}
