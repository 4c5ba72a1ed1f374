package main

// Fixture rows for demo mode, same shape as live sheet rows:
// keyword, host niche, target link, anchor text, target niche.
var demoRows = [][]string{
	{"Importância do Yoga no Trabalho", "Blog de RH e Carreira", "https://lojasports.com/kits-yoga", "kits de yoga corporativo", "E-commerce Esportivo"},
	{"Estratégias de Marketing Digital 2024", "Portal de Tecnologia", "https://agenciaxyz.com/seo", "consultoria de SEO", "Agência de Marketing"},
	{"Dicas de Alimentação Saudável", "Revista Vida Leve", "https://nutriapp.com", "app de nutrição", "Aplicativo Mobile"},
}

// Constant location attached to articles in place of a real Drive upload.
const (
	demoDriveURL = "https://docs.google.com/demo-doc-link"
	demoDriveID  = "demo-id"
)

func demoWorkItems() []RowWorkItem {
	items := make([]RowWorkItem, len(demoRows))
	for i, row := range demoRows {
		items[i] = RowWorkItem{Row: row, Index: i}
	}
	return items
}
