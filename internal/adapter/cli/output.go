package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/niksmo/cloudshop/internal/core/navigator"
	"github.com/niksmo/cloudshop/internal/core/variant"
	"github.com/spf13/cobra"
)

type printer struct {
	format string
	w      io.Writer
}

func newPrinter(opts *RootOptions, cmd *cobra.Command) printer {
	return printer{format: opts.Format, w: cmd.OutOrStdout()}
}

func (p printer) json() bool {
	return p.format == "json"
}

func (p printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// print encodes v as JSON or renders it with text into an aligned table.
func (p printer) print(v any, text func(w io.Writer)) error {
	if p.json() {
		return p.encode(v)
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	text(tw)
	return tw.Flush()
}

type (
	productCardView struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Caption string `json:"caption,omitempty"`
		Image   string `json:"image,omitempty"`
	}

	categoryView struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	valueView struct {
		Value     string `json:"value"`
		Selected  bool   `json:"selected"`
		Available bool   `json:"available"`
	}

	axisView struct {
		Name   string      `json:"name"`
		Values []valueView `json:"values"`
	}

	skuView struct {
		ID    string            `json:"id"`
		Name  string            `json:"name,omitempty"`
		Brand string            `json:"brand,omitempty"`
		Spec  map[string]string `json:"spec"`
		Price string            `json:"price"`
		Stock int               `json:"stock"`
	}

	productView struct {
		ID         string            `json:"id"`
		Name       string            `json:"name"`
		Caption    string            `json:"caption,omitempty"`
		SN         string            `json:"sn,omitempty"`
		SaleNum    int               `json:"sale_num"`
		CommentNum int               `json:"comment_num"`
		Images     []string          `json:"images"`
		Options    []axisView        `json:"options"`
		Selection  map[string]string `json:"selection"`
		Complete   bool              `json:"complete"`
		SKU        *skuView          `json:"sku"`
	}

	lineView struct {
		SKUID    string `json:"sku_id"`
		Name     string `json:"name,omitempty"`
		Spec     string `json:"spec,omitempty"`
		Price    string `json:"price"`
		Quantity int    `json:"quantity"`
		Total    string `json:"total"`
	}

	cartView struct {
		Items []lineView `json:"items"`
		Total string     `json:"total"`
	}

	navigationView struct {
		Path     []categoryView `json:"path"`
		Children []categoryView `json:"children"`
	}

	userView struct {
		Username string `json:"username"`
		Email    string `json:"email,omitempty"`
		Phone    string `json:"phone,omitempty"`
	}
)

func toProductCards(ps []domain.ProductSummary) []productCardView {
	vs := make([]productCardView, len(ps))
	for i, p := range ps {
		vs[i] = productCardView{ID: p.ID, Name: p.Name, Caption: p.Caption, Image: p.Image}
	}
	return vs
}

func toCategories(cs []domain.Category) []categoryView {
	vs := make([]categoryView, len(cs))
	for i, c := range cs {
		vs[i] = categoryView{ID: c.ID, Name: c.Name}
	}
	return vs
}

func toNavigation(st navigator.State) navigationView {
	return navigationView{
		Path:     toCategories(st.History),
		Children: toCategories(st.Children),
	}
}

func toProduct(st variant.State) productView {
	p := st.Product()
	v := productView{
		ID:         p.ID,
		Name:       p.Name,
		Caption:    p.Caption,
		SN:         p.SN,
		SaleNum:    p.SaleNum,
		CommentNum: p.CommentNum,
		Images:     p.Images,
		Selection:  st.Selection(),
		Complete:   st.IsComplete(),
	}
	for _, axis := range st.Options() {
		av := axisView{Name: axis.Name}
		for _, o := range axis.Values {
			av.Values = append(av.Values, valueView{
				Value:     o.Value,
				Selected:  o.Selected,
				Available: o.Available,
			})
		}
		v.Options = append(v.Options, av)
	}
	if sku, ok := st.Resolved(); ok {
		v.SKU = &skuView{
			ID:    sku.ID,
			Name:  sku.Name,
			Brand: sku.Brand,
			Spec:  sku.Spec,
			Price: sku.Price.String(),
			Stock: sku.Stock,
		}
	}
	return v
}

func toCart(c domain.Cart) cartView {
	v := cartView{Items: []lineView{}, Total: c.Total().String()}
	for _, it := range c.Items {
		v.Items = append(v.Items, lineView{
			SKUID:    it.SKUID,
			Name:     it.SKUName,
			Spec:     it.Spec,
			Price:    it.Price.String(),
			Quantity: it.Quantity,
			Total:    it.Price.Mul(it.Quantity).String(),
		})
	}
	return v
}

func toCheckout(c domain.Checkout) cartView {
	v := cartView{Items: []lineView{}, Total: c.Total.String()}
	for _, li := range c.Items {
		v.Items = append(v.Items, lineView{
			SKUID:    li.SKUID,
			Price:    li.Price.String(),
			Quantity: li.Quantity,
			Total:    li.Total().String(),
		})
	}
	return v
}

func writeProductCards(w io.Writer, vs []productCardView) {
	fmt.Fprintln(w, "ID\tNAME\tCAPTION")
	for _, v := range vs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.ID, v.Name, v.Caption)
	}
}

func writeCategories(w io.Writer, vs []categoryView) {
	fmt.Fprintln(w, "ID\tCATEGORY")
	for _, v := range vs {
		fmt.Fprintf(w, "%s\t%s\n", v.ID, v.Name)
	}
}

func writeNavigation(w io.Writer, v navigationView) {
	path := []string{"/"}
	for _, c := range v.Path {
		path = append(path, c.Name)
	}
	fmt.Fprintf(w, "Path:\t%s\n\n", strings.Join(path, " > "))
	writeCategories(w, v.Children)
}

// writeProduct renders options as "[red]" for the selection and
// "blue(-)" for values that cannot lead to an in-stock SKU.
func writeProduct(w io.Writer, v productView) {
	fmt.Fprintf(w, "%s\t%s\n", v.Name, v.ID)
	if v.Caption != "" {
		fmt.Fprintf(w, "\t%s\n", v.Caption)
	}
	fmt.Fprintf(w, "Sold:\t%d\tReviews: %d\n", v.SaleNum, v.CommentNum)
	for _, axis := range v.Options {
		vals := make([]string, len(axis.Values))
		for i, o := range axis.Values {
			s := o.Value
			if o.Selected {
				s = "[" + s + "]"
			}
			if !o.Available {
				s += "(-)"
			}
			vals[i] = s
		}
		fmt.Fprintf(w, "%s:\t%s\n", axis.Name, strings.Join(vals, " "))
	}
	switch {
	case v.SKU != nil && v.Complete:
		fmt.Fprintf(w, "SKU:\t%s\t%s\tstock %d\n", v.SKU.ID, v.SKU.Price, v.SKU.Stock)
	case !v.Complete:
		fmt.Fprintln(w, "SKU:\tselect a value for every specification")
	default:
		fmt.Fprintln(w, "SKU:\tunavailable")
	}
	for i, img := range v.Images {
		fmt.Fprintf(w, "Image %d:\t%s\n", i+1, img)
	}
}

func writeCart(w io.Writer, v cartView) {
	fmt.Fprintln(w, "SKU\tNAME\tPRICE\tQTY\tTOTAL")
	for _, it := range v.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", it.SKUID, it.Name, it.Price, it.Quantity, it.Total)
	}
	fmt.Fprintf(w, "\t\t\t\t%s\n", v.Total)
}
