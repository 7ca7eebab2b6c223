package sales

// ProductTypeClass groups Apple's product type identifiers into the
// three buckets the report cares about.
type ProductTypeClass int

const (
	ClassOther ProductTypeClass = iota
	ClassInstall
	ClassInAppPurchase
)

// productTypeClasses maps Apple's "Product Type Identifier" codes.
// Install codes are app downloads (paid, free, universal, custom,
// family sharing); in-app codes cover purchases and subscriptions.
// Anything not listed (updates, re-downloads) counts as Other.
var productTypeClasses = map[string]ProductTypeClass{
	"1":  ClassInstall,
	"1F": ClassInstall,
	"1T": ClassInstall,
	"F1": ClassInstall,

	"IA1":   ClassInAppPurchase,
	"IA9":   ClassInAppPurchase,
	"IAY":   ClassInAppPurchase,
	"FI1":   ClassInAppPurchase,
	"IA1-M": ClassInAppPurchase,
	"IA9-M": ClassInAppPurchase,
	"IAY-M": ClassInAppPurchase,
}

// ClassifyProductType returns the class for a product type identifier.
func ClassifyProductType(code string) ProductTypeClass {
	return productTypeClasses[code]
}

// ContributesRevenue reports whether rows of this class count toward
// revenue. Only install rows count toward installs.
func (c ProductTypeClass) ContributesRevenue() bool {
	return c == ClassInstall || c == ClassInAppPurchase
}
