package carrier

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/kargopanel/backend/internal/domain/fulfillment"
)

// The carrier speaks a legacy SOAP-style dialect. Field names and nesting
// below are part of the external contract and must match exactly.

const (
	envelopeOpen = `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/" xmlns:tem="http://tempuri.org/"><soap:Body>`
	envelopeEnd  = `</soap:Body></soap:Envelope>`
)

// buildSetOrderEnvelope serializes a shipment creation request
func buildSetOrderEnvelope(username, password string, req fulfillment.ShipmentRequest) string {
	var b strings.Builder
	b.WriteString(envelopeOpen)
	b.WriteString(`<tem:SetOrder><tem:orderInfo>`)

	writeField(&b, "UserName", username)
	writeField(&b, "Password", password)
	writeField(&b, "ReceiverName", req.ReceiverName)
	writeField(&b, "ReceiverAddress", req.ReceiverAddress)
	writeField(&b, "ReceiverCityName", req.ReceiverCity)
	writeField(&b, "ReceiverTownName", req.ReceiverTown)
	writeField(&b, "ReceiverPhone1", req.ReceiverPhone)
	writeField(&b, "ReceiverCustAddressId", req.RecipientCode)
	writeField(&b, "CargoType", req.CargoType)
	writeField(&b, "PayorTypeCode", req.PayorType)
	writeField(&b, "IntegrationCode", req.IntegrationCode)
	writeField(&b, "PieceCount", strconv.Itoa(req.PieceCount))
	writeField(&b, "Desi", req.Desi)
	writeField(&b, "Kg", req.Kg)
	writeField(&b, "CodCollectionType", req.CollectionType)
	if req.CollectionType != fulfillment.CollectionNone {
		writeField(&b, "CodAmount", req.CollectionAmount.StringFixed(2))
	} else {
		writeField(&b, "CodAmount", "0")
	}
	writeField(&b, "TransportTypeCode", req.TransportType)
	writeField(&b, "DeliveryTypeCode", req.DeliveryType)
	writeField(&b, "IsWorldWide", "0")
	writeField(&b, "MarketPlaceShipment", wireBool(req.MarketplaceShipment))
	writeField(&b, "IsReturnShipment", wireBool(req.ReturnShipment))

	b.WriteString(`</tem:orderInfo></tem:SetOrder>`)
	b.WriteString(envelopeEnd)
	return b.String()
}

// buildQueryEnvelope serializes a tracking query by order reference
func buildQueryEnvelope(username, password, integrationCode string) string {
	var b strings.Builder
	b.WriteString(envelopeOpen)
	b.WriteString(`<tem:GetQueryDS>`)
	writeField(&b, "UserName", username)
	writeField(&b, "Password", password)
	writeField(&b, "QueryType", "2")
	writeField(&b, "IntegrationCode", integrationCode)
	b.WriteString(`</tem:GetQueryDS>`)
	b.WriteString(envelopeEnd)
	return b.String()
}

// buildReturnsEnvelope serializes a returned-shipments query by date range
func buildReturnsEnvelope(username, password, startDate, endDate string) string {
	var b strings.Builder
	b.WriteString(envelopeOpen)
	b.WriteString(`<tem:GetReturnedShipments>`)
	writeField(&b, "UserName", username)
	writeField(&b, "Password", password)
	writeField(&b, "StartDate", startDate)
	writeField(&b, "EndDate", endDate)
	b.WriteString(`</tem:GetReturnedShipments>`)
	b.WriteString(envelopeEnd)
	return b.String()
}

func writeField(b *strings.Builder, tag, value string) {
	b.WriteString("<tem:")
	b.WriteString(tag)
	b.WriteString(">")
	_ = xml.EscapeText(b, []byte(value))
	b.WriteString("</tem:")
	b.WriteString(tag)
	b.WriteString(">")
}

func wireBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
