// Package schema defines the bank tables the generator fills, in emission
// order. Each table lists the columns its INSERT statements carry; serial
// primary keys the datastore assigns (CID, EID, TID) are not emitted.
package schema

import (
	"fmt"
	"strings"
)

// ColumnType enumerates column data types.
type ColumnType int

// Column type constants for DDL generation.
const (
	TypeInt ColumnType = iota
	TypeDecimal
	TypeVarchar
	TypeDate
	TypeBool
)

// Column describes a table column.
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// Table describes one bank table.
type Table struct {
	Name    string
	Columns []Column
}

// SQLType returns the SQL type string for this column.
func (c Column) SQLType() string {
	switch c.Type {
	case TypeInt:
		return "INT"
	case TypeDecimal:
		return "DECIMAL(12,2)"
	case TypeDate:
		return "DATE"
	case TypeBool:
		return "BOOLEAN"
	default:
		return "VARCHAR(64)"
	}
}

// ColumnNames returns the column list for INSERT headers.
func (t Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

// CreateSQL renders a CREATE TABLE statement for the table.
func (t Table) CreateSQL() string {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		null := " NOT NULL"
		if c.Nullable {
			null = ""
		}
		cols = append(cols, fmt.Sprintf("  `%s` %s%s", c.Name, c.SQLType(), null))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` (\n%s\n)", t.Name, strings.Join(cols, ",\n"))
}

// Bank tables in foreign-key-safe emission order. Transaction is last and
// lives in its own output stream.
var (
	Customer = Table{Name: "Customer", Columns: []Column{
		{Name: "SSN", Type: TypeVarchar},
		{Name: "Fname", Type: TypeVarchar},
		{Name: "Lname", Type: TypeVarchar},
		{Name: "Gender", Type: TypeVarchar},
		{Name: "DOB", Type: TypeDate},
		{Name: "Con_Email", Type: TypeVarchar},
		{Name: "Con_Phone", Type: TypeVarchar},
		{Name: "Street", Type: TypeVarchar},
		{Name: "Apt", Type: TypeVarchar, Nullable: true},
		{Name: "City", Type: TypeVarchar},
		{Name: "Zip", Type: TypeInt},
		{Name: "State", Type: TypeVarchar},
	}}

	Employee = Table{Name: "Employee", Columns: []Column{
		{Name: "Date_Start", Type: TypeDate},
		{Name: "Date_End", Type: TypeDate, Nullable: true},
		{Name: "CID", Type: TypeInt},
		{Name: "Sup_EID", Type: TypeInt, Nullable: true},
	}}

	AccountOnline = Table{Name: "Account_Online", Columns: []Column{
		{Name: "CID", Type: TypeInt},
		{Name: "Username", Type: TypeVarchar},
		{Name: "Password", Type: TypeVarchar},
	}}

	RecoveryQuestion = Table{Name: "Recovery_Question", Columns: []Column{
		{Name: "CID", Type: TypeInt},
		{Name: "RID", Type: TypeInt},
		{Name: "Date", Type: TypeDate},
		{Name: "Question", Type: TypeVarchar},
		{Name: "Answer", Type: TypeVarchar},
	}}

	Account = Table{Name: "Account", Columns: []Column{
		{Name: "AID", Type: TypeVarchar},
		{Name: "Type", Type: TypeVarchar},
		{Name: "Date_Open", Type: TypeDate},
		{Name: "Date_Close", Type: TypeDate, Nullable: true},
		{Name: "Balance", Type: TypeDecimal},
		{Name: "Int_Rate", Type: TypeDecimal},
		{Name: "Int_Comp", Type: TypeVarchar},
		{Name: "Month_Fee", Type: TypeDecimal},
	}}

	AccountOwner = Table{Name: "Account_Owner", Columns: []Column{
		{Name: "AID", Type: TypeVarchar},
		{Name: "CID", Type: TypeInt},
	}}

	Card = Table{Name: "Card", Columns: []Column{
		{Name: "Number", Type: TypeVarchar},
		{Name: "Exp_Date", Type: TypeDate},
		{Name: "Sec_Code", Type: TypeVarchar},
		{Name: "Status", Type: TypeVarchar},
		{Name: "AID", Type: TypeVarchar},
		{Name: "CID", Type: TypeInt},
		{Name: "PIN", Type: TypeVarchar},
	}}

	Transaction = Table{Name: "Transaction", Columns: []Column{
		{Name: "AID", Type: TypeVarchar},
		{Name: "isPending", Type: TypeBool},
		{Name: "Type", Type: TypeVarchar},
		{Name: "Date", Type: TypeDate},
		{Name: "Desc", Type: TypeVarchar},
		{Name: "Amount", Type: TypeDecimal},
		{Name: "Rec_Route", Type: TypeVarchar},
		{Name: "Rec_AID", Type: TypeVarchar},
		{Name: "DID", Type: TypeInt, Nullable: true},
	}}
)

// EntityTables lists the bulk entity tables in emission order.
func EntityTables() []Table {
	return []Table{Customer, Employee, AccountOnline, RecoveryQuestion, Account, AccountOwner, Card}
}

// AllTables lists every table including the transaction stream.
func AllTables() []Table {
	return append(EntityTables(), Transaction)
}
