package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/darkmatter-vc/portal/content"
	"github.com/darkmatter-vc/portal/internal/dates"
	"github.com/darkmatter-vc/portal/nocodb"
)

const contentTypeHTML = "text/html; charset=utf-8"

// IndexHandler renders the home page
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("index.html")
	if err != nil {
		panic("Failed to parse index template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]interface{}{
			"AppName": s.config.GetAppName(),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		_ = tmpl.Execute(w, data)
	}
}

// PortfolioPageData contains data for rendering the portfolio page
type PortfolioPageData struct {
	AppName      string
	Confidential bool
	Companies    []nocodb.PortfolioCompany
	MemoSlugs    map[string]string // company name -> latest memo slug
}

// PortfolioHandler renders the portfolio company grid. The confidential
// variant sits behind the access gate and links each company to its latest
// memo.
func (s *Server) PortfolioHandler(confidential bool) http.HandlerFunc {
	tmpl, err := ParseTemplate("portfolio.html")
	if err != nil {
		panic("Failed to parse portfolio template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := PortfolioPageData{
			AppName:      s.config.GetAppName(),
			Confidential: confidential,
			MemoSlugs:    map[string]string{},
		}

		if s.orgs != nil {
			companies, err := s.orgs.PortfolioCompanies(r.Context())
			if err != nil {
				log.Err(err).Msg("failed to load portfolio companies")
				http.Error(w, "Failed to load portfolio", http.StatusInternalServerError)
				return
			}
			data.Companies = companies

			if confidential && s.memos != nil {
				names := make([]string, 0, len(companies))
				for _, c := range companies {
					names = append(names, c.ConventionalName)
				}
				slugs, err := s.memos.LatestMemoSlugs(r.Context(), names)
				if err != nil {
					// Memo links are an enhancement; render the grid without them
					log.Err(err).Msg("failed to resolve latest memo slugs")
				} else {
					data.MemoSlugs = slugs
				}
			}
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render portfolio template")
		}
	}
}

// MemoPageData contains data for rendering a memo page
type MemoPageData struct {
	AppName string
	Slug    string
	Title   string
	Date    string
	Body    string
}

// MemoHandler renders one investment memo (GET /memos/{slug})
func (s *Server) MemoHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("memo.html")
	if err != nil {
		panic("Failed to parse memo template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		slug := r.PathValue("slug")
		if slug == "" || s.memos == nil {
			http.Error(w, "404 - Memo Not Found", http.StatusNotFound)
			return
		}

		memo, err := s.memos.FetchMemoBySlug(r.Context(), slug)
		if err != nil {
			log.Err(err).Str("slug", slug).Msg("failed to fetch memo")
			http.Error(w, "Failed to load memo", http.StatusInternalServerError)
			return
		}
		if memo == nil {
			http.Error(w, "404 - Memo Not Found", http.StatusNotFound)
			return
		}

		data := MemoPageData{
			AppName: s.config.GetAppName(),
			Slug:    slug,
			Title:   memoTitle(memo, slug),
			Date:    memoDate(memo),
			Body:    memo.Body,
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Str("slug", slug).Msg("Failed to render memo template")
		}
	}
}

func memoTitle(memo *content.Memo, fallback string) string {
	if title, ok := memo.Frontmatter["title"].(string); ok && title != "" {
		return title
	}
	return fallback
}

func memoDate(memo *content.Memo) string {
	raw, _ := memo.Frontmatter["date"].(string)
	return dates.FormatDate(raw, dates.DefaultFormat, "")
}
