package professors

import (
	"strings"
	"time"

	"ecole-backend/internal/database"
	"ecole-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateProfesseurRequest struct {
	Matricule  string `json:"matricule" validate:"required,max=50"`
	Nom        string `json:"nom" validate:"required,max=100"`
	PostNom    string `json:"post_nom" validate:"max=100"`
	Prenom     string `json:"prenom" validate:"max=100"`
	Telephone  string `json:"telephone" validate:"max=50"`
	Email      string `json:"email" validate:"omitempty,email"`
	Specialite string `json:"specialite" validate:"max=100"`
	DateEntree string `json:"date_entree"` // AAAA-MM-JJ
}

type UpdateProfesseurRequest struct {
	Nom        *string `json:"nom"`
	PostNom    *string `json:"post_nom"`
	Prenom     *string `json:"prenom"`
	Telephone  *string `json:"telephone"`
	Email      *string `json:"email"`
	Specialite *string `json:"specialite"`
	Actif      *bool   `json:"actif"`
}

type ProfesseurResponse struct {
	ID         uint   `json:"id"`
	Matricule  string `json:"matricule"`
	Nom        string `json:"nom"`
	PostNom    string `json:"post_nom"`
	Prenom     string `json:"prenom"`
	NomComplet string `json:"nom_complet"`
	Telephone  string `json:"telephone"`
	Email      string `json:"email"`
	Specialite string `json:"specialite"`
	DateEntree string `json:"date_entree,omitempty"`
	Actif      bool   `json:"actif"`
}

func toProfesseurResponse(p models.Professeur) ProfesseurResponse {
	resp := ProfesseurResponse{
		ID:         p.ID,
		Matricule:  p.Matricule,
		Nom:        p.Nom,
		PostNom:    p.PostNom,
		Prenom:     p.Prenom,
		NomComplet: p.NomComplet(),
		Telephone:  p.Telephone,
		Email:      p.Email,
		Specialite: p.Specialite,
		Actif:      p.Actif,
	}
	if p.DateEntree != nil {
		resp.DateEntree = p.DateEntree.Format("2006-01-02")
	}
	return resp
}

// POST /api/professeurs
func CreateProfesseurHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProfesseurRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		body.Matricule = strings.TrimSpace(body.Matricule)
		body.Nom = strings.TrimSpace(body.Nom)

		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Champs invalides: "+err.Error())
		}

		p := models.Professeur{
			Matricule:  body.Matricule,
			Nom:        body.Nom,
			PostNom:    strings.TrimSpace(body.PostNom),
			Prenom:     strings.TrimSpace(body.Prenom),
			Telephone:  body.Telephone,
			Email:      strings.TrimSpace(strings.ToLower(body.Email)),
			Specialite: body.Specialite,
			Actif:      true,
		}
		if body.DateEntree != "" {
			d, err := time.Parse("2006-01-02", body.DateEntree)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date_entree invalide (AAAA-MM-JJ)")
			}
			p.DateEntree = &d
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Professeur non créé (matricule déjà pris ?)")
		}
		return c.Status(fiber.StatusCreated).JSON(toProfesseurResponse(p))
	}
}

// GET /api/professeurs?actif=true&q=
func ListProfesseursHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Professeur{})

		if c.Query("actif") == "true" {
			dbq = dbq.Where("actif = ?", true)
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			dbq = dbq.Where("LOWER(nom) LIKE ? OR LOWER(post_nom) LIKE ? OR LOWER(matricule) LIKE ?", like, like, like)
		}

		var rows []models.Professeur
		if err := dbq.Order("nom asc, post_nom asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Professeurs non listés")
		}

		resp := make([]ProfesseurResponse, 0, len(rows))
		for _, p := range rows {
			resp = append(resp, toProfesseurResponse(p))
		}
		return c.JSON(resp)
	}
}

// GET /api/professeurs/:id
func GetProfesseurHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Professeur
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Professeur introuvable")
		}
		return c.JSON(toProfesseurResponse(p))
	}
}

// PUT /api/professeurs/:id
func UpdateProfesseurHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Professeur
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Professeur introuvable")
		}

		var body UpdateProfesseurRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.Nom != nil {
			nom := strings.TrimSpace(*body.Nom)
			if nom == "" {
				return fiber.NewError(fiber.StatusBadRequest, "nom ne peut pas être vide")
			}
			p.Nom = nom
		}
		if body.PostNom != nil {
			p.PostNom = strings.TrimSpace(*body.PostNom)
		}
		if body.Prenom != nil {
			p.Prenom = strings.TrimSpace(*body.Prenom)
		}
		if body.Telephone != nil {
			p.Telephone = *body.Telephone
		}
		if body.Email != nil {
			p.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.Specialite != nil {
			p.Specialite = *body.Specialite
		}
		if body.Actif != nil {
			p.Actif = *body.Actif
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Professeur non mis à jour")
		}
		return c.JSON(toProfesseurResponse(p))
	}
}
