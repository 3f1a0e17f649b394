package shopapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// flexID accepts both JSON strings and numbers.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = flexID(n.String())
	return nil
}

// jsonText is a JSON document the API sends either encoded in a string or
// inline.
type jsonText string

func (t *jsonText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = jsonText(s)
		return nil
	}
	*t = jsonText(b)
	return nil
}

type (
	productSummaryDTO struct {
		ID      flexID `json:"id"`
		Name    string `json:"name"`
		Caption string `json:"caption"`
		Image   string `json:"image"`
	}

	productDetailDTO struct {
		SPU  spuDTO   `json:"spu"`
		SKUs []skuDTO `json:"skus"`
	}

	spuDTO struct {
		ID           flexID   `json:"id"`
		Name         string   `json:"name"`
		Caption      string   `json:"caption"`
		Introduction string   `json:"introduction"`
		SN           string   `json:"sn"`
		SaleNum      int      `json:"saleNum"`
		CommentNum   int      `json:"commentNum"`
		SpecItems    jsonText `json:"specItems"`
	}

	skuDTO struct {
		ID        flexID   `json:"id"`
		Name      string   `json:"name"`
		Spec      jsonText `json:"spec"`
		Price     int64    `json:"price"`
		Num       int      `json:"num"`
		Image     string   `json:"image"`
		BrandName string   `json:"brandName"`
	}

	categoryDTO struct {
		ID   flexID `json:"id"`
		Name string `json:"name"`
	}

	cartItemDTO struct {
		SKUID    flexID   `json:"skuId"`
		SKUName  string   `json:"skuName"`
		Spec     jsonText `json:"spec"`
		Image    string   `json:"image"`
		Price    int64    `json:"price"`
		Quantity int      `json:"quantity"`
	}

	userDTO struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
	}

	loginRequest struct {
		Username string `json:"username,omitempty"`
		Email    string `json:"email,omitempty"`
		Password string `json:"password"`
	}

	registerRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
	}

	cartUpdateRequest struct {
		SKUID    string `json:"skuId"`
		Quantity int    `json:"quantity"`
	}

	cartDeleteRequest struct {
		SKUID string `json:"skuId"`
	}
)
