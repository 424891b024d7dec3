package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type seedTranslation struct {
	name, description string
}

type seedArticleText struct {
	title, summary, content string
}

// Seed populates an empty database with demo content: an admin and an editor
// account, three active categories and three published trilingual articles.
// It is idempotent: a database that already has users is left untouched.
func Seed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(id) FROM user`); err != nil {
		return fmt.Errorf("seed user check: %w", err)
	}
	if count > 0 {
		return nil
	}

	batch := NewBatch(db)
	users := NewSQLUserRepository(db, batch)
	categories := NewSQLCategoryRepository(db, batch)
	articles := NewSQLArticleRepository(db, batch)

	admin, err := seedUser("admin@blog.com", "admin123", RoleAdmin)
	if err != nil {
		return err
	}
	editor, err := seedUser("editor@blog.com", "editor123", RoleEditor)
	if err != nil {
		return err
	}
	if err := users.Save(ctx, admin, true); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	if err := users.Save(ctx, editor, true); err != nil {
		return fmt.Errorf("seed editor user: %w", err)
	}

	categoryData := map[string]map[string]seedTranslation{
		"technologie": {
			LocaleFR: {"Technologie", "Articles sur les nouvelles technologies"},
			LocaleEN: {"Technology", "Articles about new technologies"},
			LocaleES: {"Tecnología", "Artículos sobre nuevas tecnologías"},
		},
		"voyage": {
			LocaleFR: {"Voyage", "Découvrez le monde avec nos articles de voyage"},
			LocaleEN: {"Travel", "Discover the world with our travel articles"},
			LocaleES: {"Viajes", "Descubre el mundo con nuestros artículos de viajes"},
		},
		"cuisine": {
			LocaleFR: {"Cuisine", "Recettes et conseils culinaires"},
			LocaleEN: {"Cooking", "Recipes and culinary tips"},
			LocaleES: {"Cocina", "Recetas y consejos culinarios"},
		},
	}

	bySlug := make(map[string]*Category, len(categoryData))
	for _, slug := range []string{"technologie", "voyage", "cuisine"} {
		category := NewCategory()
		category.Slug = slug
		for locale, tr := range categoryData[slug] {
			category.SetName(tr.name, locale)
			category.SetDescription(tr.description, locale)
		}
		if err := categories.Save(ctx, category, true); err != nil {
			return fmt.Errorf("seed category %q: %w", slug, err)
		}
		bySlug[slug] = category
	}

	articleData := []struct {
		slug     string
		category string
		author   *User
		texts    map[string]seedArticleText
	}{
		{
			slug:     "intelligence-artificielle-2024",
			category: "technologie",
			author:   admin,
			texts: map[string]seedArticleText{
				LocaleFR: {
					"L'Intelligence Artificielle en 2024",
					"Découvrez les dernières avancées en intelligence artificielle et leur impact sur notre société.",
					"<p>L'intelligence artificielle continue d'évoluer à un rythme rapide en 2024. Les nouvelles technologies comme les modèles multimodaux et l'IA générative transforment de nombreux secteurs.</p><p>Dans cet article, nous explorons les tendances actuelles et les défis à venir pour l'IA.</p>",
				},
				LocaleEN: {
					"Artificial Intelligence in 2024",
					"Discover the latest advances in artificial intelligence and their impact on our society.",
					"<p>Artificial intelligence continues to evolve at a rapid pace in 2024. New technologies like multimodal models and generative AI are transforming many sectors.</p><p>In this article, we explore current trends and upcoming challenges for AI.</p>",
				},
				LocaleES: {
					"La Inteligencia Artificial en 2024",
					"Descubre los últimos avances en inteligencia artificial y su impacto en nuestra sociedad.",
					"<p>La inteligencia artificial continúa evolucionando a un ritmo rápido en 2024. Las nuevas tecnologías como los modelos multimodales y la IA generativa están transformando muchos sectores.</p><p>En este artículo, exploramos las tendencias actuales y los desafíos venideros para la IA.</p>",
				},
			},
		},
		{
			slug:     "paris-ville-lumiere",
			category: "voyage",
			author:   editor,
			texts: map[string]seedArticleText{
				LocaleFR: {
					"Paris, la Ville Lumière",
					"Un guide complet pour découvrir Paris, ses monuments et sa culture unique.",
					"<p>Paris, capitale de la France, est l'une des villes les plus visitées au monde. Avec ses monuments emblématiques comme la Tour Eiffel, le Louvre et Notre-Dame, Paris offre une expérience culturelle incomparable.</p><p>Découvrez nos conseils pour visiter la ville de manière optimale.</p>",
				},
				LocaleEN: {
					"Paris, the City of Light",
					"A complete guide to discover Paris, its monuments and unique culture.",
					"<p>Paris, the capital of France, is one of the most visited cities in the world. With its iconic monuments like the Eiffel Tower, the Louvre and Notre-Dame, Paris offers an incomparable cultural experience.</p><p>Discover our tips for visiting the city optimally.</p>",
				},
				LocaleES: {
					"París, la Ciudad de la Luz",
					"Una guía completa para descubrir París, sus monumentos y su cultura única.",
					"<p>París, la capital de Francia, es una de las ciudades más visitadas del mundo. Con sus monumentos icónicos como la Torre Eiffel, el Louvre y Notre-Dame, París ofrece una experiencia cultural incomparable.</p><p>Descubre nuestros consejos para visitar la ciudad de manera óptima.</p>",
				},
			},
		},
		{
			slug:     "cuisine-francaise-traditionnelle",
			category: "cuisine",
			author:   editor,
			texts: map[string]seedArticleText{
				LocaleFR: {
					"La Cuisine Française Traditionnelle",
					"Explorez les secrets de la gastronomie française et ses recettes emblématiques.",
					"<p>La cuisine française est reconnue dans le monde entier pour sa sophistication et sa diversité. Du coq au vin aux crêpes bretonnes, découvrez les recettes qui ont fait la réputation de la gastronomie française.</p><p>Nous vous proposons des recettes authentiques et des conseils pour réussir vos plats.</p>",
				},
				LocaleEN: {
					"Traditional French Cuisine",
					"Explore the secrets of French gastronomy and its iconic recipes.",
					"<p>French cuisine is recognized worldwide for its sophistication and diversity. From coq au vin to Breton crepes, discover the recipes that have made French gastronomy famous.</p><p>We offer you authentic recipes and tips to succeed in your dishes.</p>",
				},
				LocaleES: {
					"La Cocina Francesa Tradicional",
					"Explora los secretos de la gastronomía francesa y sus recetas icónicas.",
					"<p>La cocina francesa es reconocida en todo el mundo por su sofisticación y diversidad. Desde el coq au vin hasta las crêpes bretonas, descubre las recetas que han hecho famosa la gastronomía francesa.</p><p>Te ofrecemos recetas auténticas y consejos para triunfar en tus platos.</p>",
				},
			},
		},
	}

	for _, ad := range articleData {
		article := NewArticle()
		article.Slug = ad.slug
		article.IsPublished = true
		article.PublishedAt = time.Now()
		article.SetCategory(bySlug[ad.category])
		article.SetAuthor(ad.author)
		for locale, text := range ad.texts {
			article.SetTitle(text.title, locale)
			article.SetSummary(text.summary, locale)
			article.SetContent(text.content, locale)
		}
		if err := articles.Save(ctx, article, false); err != nil {
			return fmt.Errorf("seed article %q: %w", ad.slug, err)
		}
	}
	if err := batch.Flush(ctx); err != nil {
		return fmt.Errorf("seed articles: %w", err)
	}

	return nil
}

func seedUser(email, password string, role Role) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("seed bcrypt: %w", err)
	}
	return &User{Email: email, Roles: RoleList{role}, Password: string(hash)}, nil
}
