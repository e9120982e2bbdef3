// Package inventory reads Socrata asset inventory exports and selects the
// assets that are published as datasets.
package inventory

// Headers lists the asset inventory columns, in the order of the export.
var Headers = []string{
	"URL",
	"U ID",
	"Public",
	"Derived View",
	"Parent UID",
	"Domain",
	"Type",
	"Name",
	"Description",
	"Visits",
	"Creation Date",
	"Last Update Date (data)",
	"Category",
	"Keywords",
	"Downloads",
	"Owner",
	"Contact Email",
	"License",
	"Publication Stage",
	"Published Version Name",
	"Published Version UID",
	"data_provided_by",
	"Publishing Department",
	"routing_approval",
	"api_endpoint",
	"source_link",
	"owner_uid",
	"View Moderation Status",
	"provenance",
}

// Row is one asset of the inventory. Fields are tagged with the column they
// are read from.
type Row struct {
	URL                  string `tableheader:"URL"`
	UID                  string `tableheader:"U ID"`
	Public               string `tableheader:"Public"`
	DerivedView          string `tableheader:"Derived View"`
	ParentUID            string `tableheader:"Parent UID"`
	Domain               string `tableheader:"Domain"`
	Type                 string `tableheader:"Type"`
	Name                 string `tableheader:"Name"`
	Description          string `tableheader:"Description"`
	Visits               string `tableheader:"Visits"`
	CreationDate         string `tableheader:"Creation Date"`
	LastUpdateDate       string `tableheader:"Last Update Date (data)"`
	Category             string `tableheader:"Category"`
	Keywords             string `tableheader:"Keywords"`
	Downloads            string `tableheader:"Downloads"`
	Owner                string `tableheader:"Owner"`
	ContactEmail         string `tableheader:"Contact Email"`
	License              string `tableheader:"License"`
	PublicationStage     string `tableheader:"Publication Stage"`
	PublishedVersionName string `tableheader:"Published Version Name"`
	PublishedVersionUID  string `tableheader:"Published Version UID"`
	DataProvidedBy       string `tableheader:"data_provided_by"`
	PublishingDepartment string `tableheader:"Publishing Department"`
	RoutingApproval      string `tableheader:"routing_approval"`
	APIEndpoint          string `tableheader:"api_endpoint"`
	SourceLink           string `tableheader:"source_link"`
	OwnerUID             string `tableheader:"owner_uid"`
	ViewModerationStatus string `tableheader:"View Moderation Status"`
	Provenance           string `tableheader:"provenance"`
}

// Values returns the row cells in Headers order.
func (r Row) Values() []string {
	return []string{
		r.URL,
		r.UID,
		r.Public,
		r.DerivedView,
		r.ParentUID,
		r.Domain,
		r.Type,
		r.Name,
		r.Description,
		r.Visits,
		r.CreationDate,
		r.LastUpdateDate,
		r.Category,
		r.Keywords,
		r.Downloads,
		r.Owner,
		r.ContactEmail,
		r.License,
		r.PublicationStage,
		r.PublishedVersionName,
		r.PublishedVersionUID,
		r.DataProvidedBy,
		r.PublishingDepartment,
		r.RoutingApproval,
		r.APIEndpoint,
		r.SourceLink,
		r.OwnerUID,
		r.ViewModerationStatus,
		r.Provenance,
	}
}
