package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	apiKeyFlag       string
	accessTokenFlag  string
	writerPromptFlag string
	settingsFlag     string

	keywordFlag     string
	hostNicheFlag   string
	targetLinkFlag  string
	anchorTextFlag  string
	targetNicheFlag string
	uploadFlag      bool

	demoFlag bool

	contentIDFlag string

	siteFlag     string
	docFlag      string
	titleFlag    string
	slugFlag     string
	categoryFlag int
	publishFlag  bool
	outputFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "guestpost-writer",
	Short: "AI guest post generator with Google Sheets batch processing",
	Long: `Generates SEO guest post articles with an AI writer, publishes them as
Google Docs, and batch-processes spreadsheet rows, writing the resulting
document links back into the sheet.`,
	SilenceUsage: true,
}

func buildConfig() (*Config, error) {
	overrides := &ConfigOverrides{}
	if writerPromptFlag != "" {
		overrides.WriterPromptPath = &writerPromptFlag
	}
	if settingsFlag != "" {
		overrides.SettingsPath = &settingsFlag
	}
	return NewConfig(overrides)
}

func openStateStore() (*Store, error) {
	return OpenStore(getConfigPath("state.json"))
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a single guest post article",
	RunE: func(cmd *cobra.Command, args []string) error {
		apiKey, err := acquireAPIKey(apiKeyFlag)
		if err != nil {
			return err
		}

		config, err := buildConfig()
		if err != nil {
			return err
		}

		store, err := openStateStore()
		if err != nil {
			return err
		}

		generator, err := NewArticleGenerator(apiKey, config)
		if err != nil {
			return fmt.Errorf("creating generator: %w", err)
		}

		req := GenerationRequest{
			ID:          uuid.NewString(),
			Keyword:     keywordFlag,
			HostNiche:   orDefault(hostNicheFlag, defaultNiche),
			TargetLink:  orDefault(targetLinkFlag, defaultLink),
			AnchorText:  orDefault(anchorTextFlag, defaultAnchor),
			TargetNiche: orDefault(targetNicheFlag, defaultNiche),
		}

		log.Printf("→ Gerando artigo: %s", req.Keyword)
		content, err := generator.Generate(req)
		if err != nil {
			return fmt.Errorf("gerando conteúdo: %w", err)
		}

		title := extractTitle(content, req.Keyword)
		article := newArticle(req, title, content)

		filename := articleFilename(config.Settings.OutputDirectory, article)
		if err := saveArticleFile(filename, article); err != nil {
			return err
		}

		if err := store.Append(article); err != nil {
			return fmt.Errorf("gravando histórico: %w", err)
		}
		log.Printf("✓ Artigo salvo: %s", filename)

		if uploadFlag {
			var file *DriveFile
			if store.DemoMode() {
				log.Printf("[MODO DEMO] Salvando no Drive (Simulado)...")
				time.Sleep(1500 * time.Millisecond)
				file = &DriveFile{ID: demoDriveID, WebViewLink: demoDriveURL}
			} else {
				token, err := acquireToken(accessTokenFlag)
				if err != nil {
					return err
				}
				file, err = NewDriveClient().Publish(token, title, convertMarkdownToHTML(content, title))
				if err != nil {
					return fmt.Errorf("salvando no Drive: %w", err)
				}
				log.Printf("✓ Documento criado: %s", file.WebViewLink)
			}
			if err := store.AttachDrive(article.ID, file); err != nil {
				return fmt.Errorf("gravando histórico: %w", err)
			}
		}

		return nil
	},
}

var sheetCmd = &cobra.Command{
	Use:   "sheet <url-or-id>",
	Short: "Batch-process spreadsheet rows into published guest posts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		apiKey, err := acquireAPIKey(apiKeyFlag)
		if err != nil {
			return err
		}

		config, err := buildConfig()
		if err != nil {
			return err
		}

		store, err := openStateStore()
		if err != nil {
			return err
		}

		generator, err := NewArticleGenerator(apiKey, config)
		if err != nil {
			return fmt.Errorf("creating generator: %w", err)
		}

		if demoFlag || store.DemoMode() {
			orchestrator := NewOrchestrator(generator, nil, nil, nil, store)
			return orchestrator.RunSimulation()
		}

		if len(args) == 0 {
			return fmt.Errorf("spreadsheet URL or ID required (or enable demo mode)")
		}

		sheetID := extractFileID(args[0])
		if sheetID == "" {
			return fmt.Errorf("ID da planilha inválido: %s", args[0])
		}

		token, err := acquireToken(accessTokenFlag)
		if err != nil {
			return err
		}

		sheets := NewSheetClient(config.LinkColumn())
		orchestrator := NewOrchestrator(generator, NewDriveClient(), sheets, sheets, store)
		return orchestrator.ProcessSheet(token, sheetID)
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo on|off|status",
	Short: "Toggle the persisted demo mode flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStateStore()
		if err != nil {
			return err
		}

		switch args[0] {
		case "on":
			if err := store.SetDemoMode(true); err != nil {
				return err
			}
			log.Printf("✓ Modo demo ativado")
		case "off":
			if err := store.SetDemoMode(false); err != nil {
				return err
			}
			log.Printf("✓ Modo demo desativado")
		case "status":
			if store.DemoMode() {
				fmt.Println("demo mode: on")
			} else {
				fmt.Println("demo mode: off")
			}
		default:
			return fmt.Errorf("unknown argument %q: expected on, off or status", args[0])
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the generated article history",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStateStore()
		if err != nil {
			return err
		}

		if contentIDFlag != "" {
			article, ok := store.FindArticle(contentIDFlag)
			if !ok {
				return fmt.Errorf("article not found: %s", contentIDFlag)
			}
			fmt.Println(article.Content)
			return nil
		}

		articles := store.Articles()
		if len(articles) == 0 {
			fmt.Println("Nenhum artigo gerado ainda.")
			return nil
		}

		fmt.Println(renderHistoryTable(articles))
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the article history",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStateStore()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		log.Printf("✓ Histórico limpo")
		return nil
	},
}

var docCmd = &cobra.Command{
	Use:   "doc <url-or-id>",
	Short: "Export a published Google Doc back to markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docID := extractFileID(args[0])
		if docID == "" {
			return fmt.Errorf("ID do documento inválido: %s", args[0])
		}

		token, err := acquireToken(accessTokenFlag)
		if err != nil {
			return err
		}

		html, err := NewDriveClient().ExportHTML(token, docID)
		if err != nil {
			return err
		}

		markdown, err := docToMarkdown(html)
		if err != nil {
			return err
		}

		if outputFlag != "" {
			if err := os.WriteFile(outputFlag, []byte(markdown), 0644); err != nil {
				return fmt.Errorf("writing markdown file: %w", err)
			}
			log.Printf("✓ Markdown salvo: %s", outputFlag)
			return nil
		}

		fmt.Println(markdown)
		return nil
	},
}

var wpCmd = &cobra.Command{
	Use:   "wp",
	Short: "WordPress publishing helpers",
}

var wpCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories of a configured WordPress site",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := buildConfig()
		if err != nil {
			return err
		}

		site, ok := config.FindSite(siteFlag)
		if !ok {
			return fmt.Errorf("WordPress site not configured: %s", siteFlag)
		}

		categories, err := NewWordpressClient().FetchCategories(site)
		if err != nil {
			return err
		}

		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"ID", "NAME", "SLUG", "POSTS"})
		for _, category := range categories {
			tw.AppendRow(table.Row{category.ID, category.Name, category.Slug, category.Count})
		}
		fmt.Println(tw.Render())
		return nil
	},
}

var wpPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a Google Doc as a WordPress post",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := buildConfig()
		if err != nil {
			return err
		}

		site, ok := config.FindSite(siteFlag)
		if !ok {
			return fmt.Errorf("WordPress site not configured: %s", siteFlag)
		}

		docID := extractFileID(docFlag)
		if docID == "" {
			return fmt.Errorf("ID do documento inválido: %s", docFlag)
		}

		token, err := acquireToken(accessTokenFlag)
		if err != nil {
			return err
		}

		html, err := NewDriveClient().ExportHTML(token, docID)
		if err != nil {
			return err
		}

		markdown, err := docToMarkdown(html)
		if err != nil {
			return err
		}

		title := titleFlag
		if title == "" {
			title = extractTitle(markdown, docID)
		}

		post := WordpressPost{
			Title:   title,
			Content: html,
			Slug:    orDefault(slugFlag, generateSlugFromTitle(title)),
			Status:  "draft",
		}
		if publishFlag {
			post.Status = "publish"
		}
		if categoryFlag > 0 {
			post.Categories = []int{categoryFlag}
		}

		log.Printf("→ Publicando em %s: %s", site.Name, title)
		link, err := NewWordpressClient().CreatePost(site, post)
		if err != nil {
			return err
		}

		log.Printf("✓ Post criado: %s", link)
		return nil
	},
}

// renderHistoryTable renders the history as a table, most recent first.
func renderHistoryTable(articles []GeneratedArticle) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "TÍTULO", "STATUS", "CRIADO", "DRIVE"})
	for _, article := range articles {
		drive := "-"
		if article.DriveURL != "" {
			drive = article.DriveURL
		}
		tw.AppendRow(table.Row{
			shortID(article.ID),
			article.Title,
			string(article.Status),
			article.CreatedAt.Format("2006-01-02 15:04"),
			drive,
		})
	}
	return tw.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func init() {
	for _, cmd := range []*cobra.Command{generateCmd, sheetCmd} {
		cmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "Anthropic API key")
		cmd.Flags().StringVar(&writerPromptFlag, "writer-prompt", "", "Path to custom writer prompt file")
		cmd.Flags().StringVar(&settingsFlag, "settings", "", "Path to custom settings file")
	}
	for _, cmd := range []*cobra.Command{generateCmd, sheetCmd, docCmd, wpPublishCmd} {
		cmd.Flags().StringVar(&accessTokenFlag, "access-token", "", "Google OAuth access token")
	}

	generateCmd.Flags().StringVar(&keywordFlag, "keyword", "", "Main topic/keyword for the article")
	generateCmd.Flags().StringVar(&hostNicheFlag, "host-niche", "", "Niche of the publishing site")
	generateCmd.Flags().StringVar(&targetLinkFlag, "target-link", "", "URL the anchor text links to")
	generateCmd.Flags().StringVar(&anchorTextFlag, "anchor-text", "", "Exact anchor text to place once")
	generateCmd.Flags().StringVar(&targetNicheFlag, "target-niche", "", "Niche of the link target site")
	generateCmd.Flags().BoolVar(&uploadFlag, "upload", false, "Also upload the article to Google Drive")
	generateCmd.MarkFlagRequired("keyword")

	sheetCmd.Flags().BoolVar(&demoFlag, "demo", false, "Force the demo simulation for this run")

	historyCmd.Flags().StringVar(&contentIDFlag, "content", "", "Print the markdown of one article by ID")

	docCmd.Flags().StringVar(&outputFlag, "output", "", "Write markdown to a file instead of stdout")

	wpCategoriesCmd.Flags().StringVar(&siteFlag, "site", "", "Configured WordPress site name")
	wpCategoriesCmd.MarkFlagRequired("site")

	wpPublishCmd.Flags().StringVar(&siteFlag, "site", "", "Configured WordPress site name")
	wpPublishCmd.Flags().StringVar(&docFlag, "doc", "", "Google Doc URL or ID to publish")
	wpPublishCmd.Flags().StringVar(&titleFlag, "title", "", "Post title (default: extracted from the document)")
	wpPublishCmd.Flags().StringVar(&slugFlag, "slug", "", "Post slug (default: derived from the title)")
	wpPublishCmd.Flags().IntVar(&categoryFlag, "category", 0, "Category ID to assign")
	wpPublishCmd.Flags().BoolVar(&publishFlag, "publish", false, "Publish immediately instead of creating a draft")
	wpPublishCmd.MarkFlagRequired("site")
	wpPublishCmd.MarkFlagRequired("doc")

	wpCmd.AddCommand(wpCategoriesCmd, wpPublishCmd)
	rootCmd.AddCommand(generateCmd, sheetCmd, demoCmd, historyCmd, clearCmd, docCmd, wpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
