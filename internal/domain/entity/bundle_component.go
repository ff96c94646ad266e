package entity

// BundleComponent fila del registro de composición: unidades de componente por unidad de bundle.
type BundleComponent struct {
	BundleSKU    string
	ComponentSKU string
	QtyPerBundle int64
}

// BundleComposition vista de composición con nombres y stock actual del componente.
type BundleComposition struct {
	BundleSKU      string
	BundleName     string
	ComponentSKU   string
	ComponentName  string
	QtyPerBundle   int64
	ComponentStock int64
}
