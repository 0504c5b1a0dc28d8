package entities

// IndexProject is the package-index metadata used to generate a new expression.
type IndexProject struct {
	Name         string
	Version      string
	Summary      string
	HomePage     string
	License      string
	RequiresDist []string
}
