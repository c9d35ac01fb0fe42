package provider

import "encoding/xml"

type authResponseDoc struct {
	XMLName            xml.Name `xml:"po_auth_response"`
	OrderNumber        string   `xml:"f_order_number"`
	ResponseCode       string   `xml:"x_response_code"`
	ResponseReasonText string   `xml:"x_response_reason_text"`
	TransID            string   `xml:"x_trans_id"`
	Handshake          string   `xml:"f_relay_handshake"`
}

type itsnDoc struct {
	XMLName     xml.Name `xml:"po_itsn"`
	OrderNumber string   `xml:"f_order_number"`
	TransID     string   `xml:"x_trans_id"`
}

type authRequestDoc struct {
	XMLName xml.Name `xml:"po_auth_request"`
	Login   string   `xml:"f_login"`
	AuthorizationRequest
}

type authURLResponseDoc struct {
	XMLName     xml.Name `xml:"po_auth_url_response"`
	ErrorCode   string   `xml:"po_error_code"`
	ErrorReason string   `xml:"po_error_reason"`
	RedirectURL string   `xml:"po_redirect_url"`
}

type queryRequestDoc struct {
	XMLName     xml.Name `xml:"po_query"`
	Login       string   `xml:"f_login"`
	Website     string   `xml:"f_website"`
	OrderNumber string   `xml:"f_order_number"`
	TransID     string   `xml:"x_trans_id"`
}

type statusDoc struct {
	Code string `xml:"code"`
	Name string `xml:"name"`
}

type queryResponseDoc struct {
	XMLName     xml.Name `xml:"po_query_response"`
	ErrorCode   string   `xml:"po_error_code"`
	ErrorReason string   `xml:"po_error_reason"`
	Order       struct {
		OrderNumber string `xml:"f_order_number"`
		Transaction struct {
			TransID    string    `xml:"x_trans_id"`
			StatusFin1 statusDoc `xml:"status_fin1"`
			StatusFin2 statusDoc `xml:"status_fin2"`
		} `xml:"tranzaction"`
	} `xml:"order"`
}

type itsnResponseDoc struct {
	XMLName      xml.Name `xml:"itsn"`
	ResponseCode string   `xml:"f_response_code"`
	TransID      string   `xml:"x_trans_id"`
	Signature    string   `xml:"f_signature"`
}
