package noticeboard

import (
	"context"
	"log/slog"
	"strings"

	"noticeboard-migrate/lib/contentstore"
)

// Category is one node of the site's classification tree: a fixed set of
// top-level nodes and an open set of children hanging off them.
type Category struct {
	Id            string
	Slug          string
	Title         string
	Colour        string
	ParentId      string
	ShowInMainNav bool
	ShowInTopNav  bool
	Order         int
}

var TopLevelCategories = []Category{
	{Id: "category-government", Slug: "government", Title: "Useful Info", Colour: "blue", ShowInMainNav: true, Order: 1},
	{Id: "category-support", Slug: "support", Title: "Support", Colour: "green", ShowInMainNav: true, Order: 2},
	{Id: "category-shopping", Slug: "shopping", Title: "Shopping", Colour: "purple", ShowInMainNav: true, Order: 3},
	{Id: "category-education", Slug: "education", Title: "Education", Colour: "orange", ShowInMainNav: true, Order: 4},
	{Id: "category-community", Slug: "community", Title: "Community", Colour: "teal", ShowInMainNav: true, Order: 5},
	{Id: "category-entertainment", Slug: "entertainment", Title: "Entertainment", Colour: "rose", ShowInMainNav: true, Order: 6},
}

var SubCategories = []Category{
	{Id: "category-announcements", Slug: "announcements", Title: "Announcements", Colour: "blue", ParentId: "category-government", Order: 99},
	{Id: "category-local-guidance", Slug: "local-guidance", Title: "Local Guidance", Colour: "blue", ParentId: "category-government", Order: 99},
	{Id: "category-halacha", Slug: "halacha", Title: "Halacha", Colour: "blue", ParentId: "category-government", Order: 99},
	{Id: "category-kashrus", Slug: "kashrus", Title: "Kashrus", Colour: "blue", ParentId: "category-government", Order: 99},
	{Id: "category-local-shops", Slug: "local-shops", Title: "Local Shops", Colour: "purple", ParentId: "category-shopping", Order: 99},
	{Id: "category-shop-announcements", Slug: "shop-announcements", Title: "Shop Announcements", Colour: "purple", ParentId: "category-shopping", Order: 99},
	{Id: "category-cateringtake-away", Slug: "cateringtake-away", Title: "Catering & Take-Away", Colour: "purple", ParentId: "category-shopping", Order: 99},
	{Id: "category-kosher-outdoor-dining", Slug: "kosher-outdoor-dining", Title: "Kosher Outdoor Dining", Colour: "purple", ParentId: "category-shopping", Order: 99},
	{Id: "category-gifts", Slug: "gifts", Title: "Gifts", Colour: "purple", ParentId: "category-shopping", Order: 99},
	{Id: "category-recipes", Slug: "recipes", Title: "Recipes", Colour: "purple", ParentId: "category-shopping", Order: 99},
	{Id: "category-outings-activities", Slug: "outings-activities", Title: "Outings & Activities", Colour: "rose", ParentId: "category-entertainment", Order: 99},
	{Id: "category-online-events", Slug: "online-events", Title: "Online Events & Podcasts", Colour: "rose", ParentId: "category-entertainment", Order: 99},
	{Id: "category-purim", Slug: "purim", Title: "Purim", Colour: "rose", ParentId: "category-entertainment", Order: 99},
	{Id: "category-pesach", Slug: "pesach", Title: "Pesach", Colour: "rose", ParentId: "category-entertainment", Order: 99},
	{Id: "category-travel", Slug: "travel", Title: "Travel", Colour: "rose", ParentId: "category-entertainment", Order: 99},
	{Id: "category-childrens-education", Slug: "childrens-education", Title: "Children's Education", Colour: "orange", ParentId: "category-education", Order: 99},
	{Id: "category-information-for-educators", Slug: "information-for-educators", Title: "Information for Educators", Colour: "orange", ParentId: "category-education", Order: 99},
	{Id: "category-beis-hamikdosh", Slug: "beis-hamikdosh", Title: "Beis Hamikdosh", Colour: "orange", ParentId: "category-education", Order: 99},
	{Id: "category-shiurim", Slug: "shiurim", Title: "Shiurim", Colour: "orange", ParentId: "category-education", Order: 99},
	{Id: "category-parsha", Slug: "parsha", Title: "Parsha", Colour: "orange", ParentId: "category-education", Order: 99},
	{Id: "category-organisations", Slug: "organisations", Title: "Organisations", Colour: "teal", ParentId: "category-community", Order: 99},
	{Id: "category-volunteering", Slug: "volunteering", Title: "Volunteering", Colour: "teal", ParentId: "category-community", Order: 99},
	{Id: "category-women", Slug: "women", Title: "Women", Colour: "teal", ParentId: "category-community", Order: 99},
	{Id: "category-work-avenue", Slug: "work-avenue", Title: "Work Avenue", Colour: "teal", ParentId: "category-community", Order: 99},
	{Id: "category-business-directory", Slug: "business-directory", Title: "Business Directory", Colour: "teal", ParentId: "category-community", Order: 99},
	{Id: "category-wellbeing", Slug: "wellbeing", Title: "Wellbeing", Colour: "green", ParentId: "category-support", Order: 99},
	{Id: "category-parenting", Slug: "parenting", Title: "Parenting", Colour: "green", ParentId: "category-support", Order: 99},
	{Id: "category-gemachim", Slug: "gemachim", Title: "Gemachim", Colour: "green", ParentId: "category-support", Order: 99},
}

var TopNavCategories = []Category{
	{Id: "category-shuls", Slug: "shuls", Title: "Shuls", ShowInTopNav: true, Order: 1},
	{Id: "category-schools", Slug: "schools", Title: "Schools", ShowInTopNav: true, Order: 2},
	{Id: "category-top-shiurim", Slug: "top-shiurim", Title: "Shiurim", ShowInTopNav: true, Order: 3},
	{Id: "category-top-gemachim", Slug: "top-gemachim", Title: "Gemachim", ShowInTopNav: true, Order: 4},
	{Id: "category-cholim", Slug: "cholim", Title: "Cholim", ShowInTopNav: true, Order: 5},
}

const DefaultCategoryId = "category-community"

// pathToCategoryId is the one shared lookup table from a source path
// segment to a category document id. Earlier iterations of the migration
// carried three diverging copies of this table; keep it here and only here.
var pathToCategoryId = map[string]string{
	"support":                    "category-support",
	"community":                  "category-community",
	"entertainment":              "category-entertainment",
	"shopping":                   "category-shopping",
	"education":                  "category-education",
	"government":                 "category-government",
	"announcements":              "category-announcements",
	"local-guidance":             "category-local-guidance",
	"kashrus":                    "category-kashrus",
	"halacha":                    "category-halacha",
	"local-shops":                "category-local-shops",
	"shop-announcements":         "category-shop-announcements",
	"cateringtake-away":          "category-cateringtake-away",
	"kosher-outdoor-dining":      "category-kosher-outdoor-dining",
	"gifts":                      "category-gifts",
	"recipes":                    "category-recipes",
	"outings-and-activities":     "category-outings-activities",
	"online-events":              "category-online-events",
	"purim":                      "category-purim",
	"pesach":                     "category-pesach",
	"travel":                     "category-travel",
	"childrens-education":        "category-childrens-education",
	"information-for-educators":  "category-information-for-educators",
	"beis-hamikdosh":             "category-beis-hamikdosh",
	"shiurim":                    "category-shiurim",
	"parsha":                     "category-parsha",
	"organisations":              "category-organisations",
	"volunteering":               "category-volunteering",
	"women":                      "category-women",
	"work-avenue":                "category-work-avenue",
	"business-directory":         "category-business-directory",
	"wellbeing":                  "category-wellbeing",
	"parenting":                  "category-parenting",
	"gemachim":                   "category-gemachim",
}

// CategoryIdForPath maps a record's source path to a category document id.
// Unknown segments land in the default bucket, with a log line so drift in
// the source site's paths is visible.
func CategoryIdForPath(sourcePath string) string {
	segment := ""
	parts := strings.Split(sourcePath, "/")
	if len(parts) > 1 {
		segment = parts[1]
	}

	id, ok := pathToCategoryId[segment]
	if !ok {
		slog.Warn("unknown category path segment, using default bucket",
			"segment", segment, "source_path", sourcePath)
		return DefaultCategoryId
	}
	return id
}

var categoriesById = func() map[string]Category {
	byId := map[string]Category{}
	for _, list := range [][]Category{TopLevelCategories, SubCategories, TopNavCategories} {
		for _, cat := range list {
			byId[cat.Id] = cat
		}
	}
	return byId
}()

func CategoryById(id string) (Category, bool) {
	cat, ok := categoriesById[id]
	return cat, ok
}

// CategoryTitleForPath is the display name used in scraped records.
func CategoryTitleForPath(sourcePath string) string {
	cat, _ := CategoryById(CategoryIdForPath(sourcePath))
	return cat.Title
}

type categoryDoc struct {
	Type          string                  `json:"_type"`
	Id            string                  `json:"_id"`
	Title         string                  `json:"title"`
	Slug          contentstore.Slug       `json:"slug"`
	Colour        string                  `json:"colour,omitempty"`
	ShowInMainNav bool                    `json:"showInMainNav"`
	ShowInTopNav  bool                    `json:"showInTopNav"`
	Order         int                     `json:"order"`
	Parent        *contentstore.Reference `json:"parent,omitempty"`
}

func buildCategoryDoc(cat Category) categoryDoc {
	doc := categoryDoc{
		Type:          "category",
		Id:            cat.Id,
		Title:         cat.Title,
		Slug:          contentstore.NewSlug(cat.Slug),
		Colour:        cat.Colour,
		ShowInMainNav: cat.ShowInMainNav,
		ShowInTopNav:  cat.ShowInTopNav,
		Order:         cat.Order,
	}
	if cat.ParentId != "" {
		parent := contentstore.NewReference(cat.ParentId)
		doc.Parent = &parent
	}
	return doc
}

// EnsureTaxonomy upserts every known category node. Top-level nodes go
// first: a child's parent reference must exist before any notice
// referencing the child is written.
func EnsureTaxonomy(ctx context.Context, store *contentstore.Client) error {
	for _, list := range [][]Category{TopLevelCategories, SubCategories, TopNavCategories} {
		for _, cat := range list {
			err := store.CreateOrReplace(ctx, buildCategoryDoc(cat))
			if err != nil {
				return err
			}
			slog.InfoContext(ctx, "upserted category", "id", cat.Id, "title", cat.Title)
		}
	}
	return nil
}
