package students

import (
	"fmt"
	"strings"
	"time"

	"ecole-backend/internal/audit"
	"ecole-backend/internal/auth"
	"ecole-backend/internal/database"
	"ecole-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateEleveRequest struct {
	Matricule     string `json:"matricule" validate:"required,max=50"`
	Nom           string `json:"nom" validate:"required,max=100"`
	PostNom       string `json:"post_nom" validate:"max=100"`
	Prenom        string `json:"prenom" validate:"max=100"`
	Sexe          string `json:"sexe" validate:"omitempty,oneof=M F"`
	DateNaissance string `json:"date_naissance"` // AAAA-MM-JJ
	LieuNaissance string `json:"lieu_naissance" validate:"max=100"`
	Adresse       string `json:"adresse" validate:"max=255"`
	NomTuteur     string `json:"nom_tuteur" validate:"max=150"`
	TelTuteur     string `json:"tel_tuteur" validate:"max=50"`
	ClasseID      uint   `json:"classe_id" validate:"required"`
}

type UpdateEleveRequest struct {
	Nom           *string `json:"nom"`
	PostNom       *string `json:"post_nom"`
	Prenom        *string `json:"prenom"`
	Sexe          *string `json:"sexe"`
	DateNaissance *string `json:"date_naissance"`
	LieuNaissance *string `json:"lieu_naissance"`
	Adresse       *string `json:"adresse"`
	NomTuteur     *string `json:"nom_tuteur"`
	TelTuteur     *string `json:"tel_tuteur"`
	ClasseID      *uint   `json:"classe_id"`
}

type ChangeStatutRequest struct {
	Statut models.EleveStatut `json:"statut"`
	Motif  string             `json:"motif"`
}

type EleveResponse struct {
	ID            uint   `json:"id"`
	Matricule     string `json:"matricule"`
	Nom           string `json:"nom"`
	PostNom       string `json:"post_nom"`
	Prenom        string `json:"prenom"`
	NomComplet    string `json:"nom_complet"`
	Sexe          string `json:"sexe"`
	DateNaissance string `json:"date_naissance,omitempty"`
	LieuNaissance string `json:"lieu_naissance"`
	Adresse       string `json:"adresse"`
	NomTuteur     string `json:"nom_tuteur"`
	TelTuteur     string `json:"tel_tuteur"`
	ClasseID      uint   `json:"classe_id"`
	Classe        string `json:"classe"`
	Statut        string `json:"statut"`
}

func toEleveResponse(e models.Eleve) EleveResponse {
	resp := EleveResponse{
		ID:            e.ID,
		Matricule:     e.Matricule,
		Nom:           e.Nom,
		PostNom:       e.PostNom,
		Prenom:        e.Prenom,
		NomComplet:    e.NomComplet(),
		Sexe:          e.Sexe,
		LieuNaissance: e.LieuNaissance,
		Adresse:       e.Adresse,
		NomTuteur:     e.NomTuteur,
		TelTuteur:     e.TelTuteur,
		ClasseID:      e.ClasseID,
		Classe:        e.Classe.Nom,
		Statut:        string(e.Statut),
	}
	if e.DateNaissance != nil {
		resp.DateNaissance = e.DateNaissance.Format("2006-01-02")
	}
	return resp
}

// POST /api/eleves
func CreateEleveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateEleveRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		body.Matricule = strings.TrimSpace(body.Matricule)
		body.Nom = strings.TrimSpace(body.Nom)

		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Champs invalides: "+err.Error())
		}

		var classe models.Classe
		if err := database.DB.First(&classe, "id = ?", body.ClasseID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Classe introuvable")
		}

		eleve := models.Eleve{
			Matricule:     body.Matricule,
			Nom:           body.Nom,
			PostNom:       strings.TrimSpace(body.PostNom),
			Prenom:        strings.TrimSpace(body.Prenom),
			Sexe:          body.Sexe,
			LieuNaissance: body.LieuNaissance,
			Adresse:       body.Adresse,
			NomTuteur:     body.NomTuteur,
			TelTuteur:     body.TelTuteur,
			ClasseID:      body.ClasseID,
			Statut:        models.EleveActif,
		}

		if body.DateNaissance != "" {
			d, err := time.Parse("2006-01-02", body.DateNaissance)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date_naissance invalide (AAAA-MM-JJ)")
			}
			eleve.DateNaissance = &d
		}

		if err := database.DB.Create(&eleve).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Élève non créé (matricule déjà pris ?)")
		}

		eleve.Classe = classe
		return c.Status(fiber.StatusCreated).JSON(toEleveResponse(eleve))
	}
}

// GET /api/eleves?classe_id=...&statut=...&q=...
func ListElevesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Eleve{}).Preload("Classe")

		if cidStr := c.Query("classe_id"); cidStr != "" {
			var cid uint
			if _, err := fmt.Sscan(cidStr, &cid); err != nil || cid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "classe_id invalide")
			}
			dbq = dbq.Where("classe_id = ?", cid)
		}
		if statut := c.Query("statut"); statut != "" {
			if !models.EleveStatut(statut).Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "statut invalide")
			}
			dbq = dbq.Where("statut = ?", statut)
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			dbq = dbq.Where("LOWER(nom) LIKE ? OR LOWER(post_nom) LIKE ? OR LOWER(prenom) LIKE ? OR LOWER(matricule) LIKE ?",
				like, like, like, like)
		}

		var eleves []models.Eleve
		if err := dbq.Order("nom asc, post_nom asc").Find(&eleves).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Élèves non listés")
		}

		resp := make([]EleveResponse, 0, len(eleves))
		for _, e := range eleves {
			resp = append(resp, toEleveResponse(e))
		}
		return c.JSON(resp)
	}
}

// GET /api/eleves/:id
func GetEleveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var eleve models.Eleve
		if err := database.DB.Preload("Classe").First(&eleve, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Élève introuvable")
		}
		return c.JSON(toEleveResponse(eleve))
	}
}

// PUT /api/eleves/:id
func UpdateEleveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var eleve models.Eleve
		if err := database.DB.First(&eleve, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Élève introuvable")
		}

		var body UpdateEleveRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.Nom != nil {
			nom := strings.TrimSpace(*body.Nom)
			if nom == "" {
				return fiber.NewError(fiber.StatusBadRequest, "nom ne peut pas être vide")
			}
			eleve.Nom = nom
		}
		if body.PostNom != nil {
			eleve.PostNom = strings.TrimSpace(*body.PostNom)
		}
		if body.Prenom != nil {
			eleve.Prenom = strings.TrimSpace(*body.Prenom)
		}
		if body.Sexe != nil {
			if *body.Sexe != "M" && *body.Sexe != "F" && *body.Sexe != "" {
				return fiber.NewError(fiber.StatusBadRequest, "sexe invalide")
			}
			eleve.Sexe = *body.Sexe
		}
		if body.DateNaissance != nil {
			if *body.DateNaissance == "" {
				eleve.DateNaissance = nil
			} else {
				d, err := time.Parse("2006-01-02", *body.DateNaissance)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "date_naissance invalide")
				}
				eleve.DateNaissance = &d
			}
		}
		if body.LieuNaissance != nil {
			eleve.LieuNaissance = *body.LieuNaissance
		}
		if body.Adresse != nil {
			eleve.Adresse = *body.Adresse
		}
		if body.NomTuteur != nil {
			eleve.NomTuteur = *body.NomTuteur
		}
		if body.TelTuteur != nil {
			eleve.TelTuteur = *body.TelTuteur
		}
		if body.ClasseID != nil {
			var classe models.Classe
			if err := database.DB.First(&classe, "id = ?", *body.ClasseID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Classe introuvable")
			}
			eleve.ClasseID = *body.ClasseID
		}

		if err := database.DB.Save(&eleve).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Élève non mis à jour")
		}

		database.DB.Preload("Classe").First(&eleve, eleve.ID)
		return c.JSON(toEleveResponse(eleve))
	}
}

// PUT /api/eleves/:id/statut - transfert, exclusion, diplôme...
func ChangeStatutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var eleve models.Eleve
		if err := database.DB.First(&eleve, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Élève introuvable")
		}

		var body ChangeStatutRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		if !body.Statut.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "statut invalide")
		}

		avant := eleve.Statut
		eleve.Statut = body.Statut
		if err := database.DB.Save(&eleve).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Statut non modifié")
		}

		if userID, err := auth.CurrentUserID(c); err == nil {
			var user models.User
			database.DB.First(&user, userID)
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    user.Name,
				EntityType:  "eleve",
				EntityID:    eleve.ID,
				Action:      models.ActionUpdate,
				Description: fmt.Sprintf("Statut élève %s: %s -> %s (%s)", eleve.Matricule, avant, eleve.Statut, body.Motif),
				Before:      fiber.Map{"statut": avant},
				After:       fiber.Map{"statut": eleve.Statut},
			}); logErr != nil {
				fmt.Printf("Historique non écrit: %v\n", logErr)
			}
		}

		return c.JSON(fiber.Map{
			"id":     eleve.ID,
			"statut": eleve.Statut,
		})
	}
}
