// Package models holds the row types shared by the importer, the query
// layer and the fixture generator.
package models

import (
	"strconv"
	"time"
)

// DateLayout is the subscription_date format used in the CSV dataset.
const DateLayout = "2006-01-02"

// CSVHeader is the canonical header of the 12-column customer dataset.
// Files carry their own header line; it is read and discarded, and these
// names are used to map the positional fields onto Customer.
var CSVHeader = []string{
	"index", "customer_id", "first_name", "last_name",
	"company", "city", "country", "phone_1", "phone_2",
	"email", "subscription_date", "website",
}

// CSVDisplayHeader is the header line written to generated files. It
// matches the published dataset.
var CSVDisplayHeader = []string{
	"Index", "Customer Id", "First Name", "Last Name",
	"Company", "City", "Country", "Phone 1", "Phone 2",
	"Email", "Subscription Date", "Website",
}

// Customer is one imported CSV line
type Customer struct {
	// Synthetic primary key, assigned by the database
	ID int64 `csv:"-" db:"id" json:"id,omitempty" yaml:"id,omitempty"`

	// Original row ordinal from the dataset
	Index int `csv:"index" db:"customer_index" json:"customer_index" yaml:"customer_index"`

	// Unique business key (up to 16 chars)
	CustomerID string `csv:"customer_id" db:"customer_id" json:"customer_id" yaml:"customer_id"`

	FirstName string `csv:"first_name" db:"first_name" json:"first_name" yaml:"first_name"`
	LastName  string `csv:"last_name" db:"last_name" json:"last_name" yaml:"last_name"`
	Company   string `csv:"company" db:"company" json:"company" yaml:"company"`
	City      string `csv:"city" db:"city" json:"city" yaml:"city"`
	Country   string `csv:"country" db:"country" json:"country" yaml:"country"`
	Phone1    string `csv:"phone_1" db:"phone_1" json:"phone_1" yaml:"phone_1"`
	Phone2    string `csv:"phone_2" db:"phone_2" json:"phone_2" yaml:"phone_2"`
	Email     string `csv:"email" db:"email" json:"email" yaml:"email"`

	SubscriptionDate time.Time `csv:"subscription_date" db:"subscription_date" json:"subscription_date" yaml:"subscription_date"`

	Website string `csv:"website" db:"website" json:"website" yaml:"website"`
}

// Record renders the customer as a CSV record in CSVHeader order
func (c *Customer) Record() []string {
	return []string{
		strconv.Itoa(c.Index),
		c.CustomerID,
		c.FirstName,
		c.LastName,
		c.Company,
		c.City,
		c.Country,
		c.Phone1,
		c.Phone2,
		c.Email,
		c.SubscriptionDate.Format(DateLayout),
		c.Website,
	}
}

// CustomerSummary is the projection returned by lookups and random sampling
type CustomerSummary struct {
	CustomerID string `db:"customer_id" json:"customer_id" yaml:"customer_id"`
	FirstName  string `db:"first_name" json:"first_name" yaml:"first_name"`
	LastName   string `db:"last_name" json:"last_name" yaml:"last_name"`
	Email      string `db:"email" json:"email" yaml:"email"`
	Country    string `db:"country" json:"country" yaml:"country"`
}

// FullName returns "First Last"
func (c CustomerSummary) FullName() string {
	return c.FirstName + " " + c.LastName
}
