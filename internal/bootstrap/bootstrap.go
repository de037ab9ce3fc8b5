package bootstrap

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	drawinginadapter "trefila/internal/modules/drawing/adapter/in"
	drawingoutadapter "trefila/internal/modules/drawing/adapter/out"
	drawingservice "trefila/internal/modules/drawing/service"
	drawingusecase "trefila/internal/modules/drawing/usecase"
	recipeinadapter "trefila/internal/modules/recipe/adapter/in"
	recipeoutadapter "trefila/internal/modules/recipe/adapter/out"
	recipeservice "trefila/internal/modules/recipe/service"
	recipeusecase "trefila/internal/modules/recipe/usecase"
	"trefila/internal/platform/clock"
	"trefila/internal/platform/config"
	"trefila/internal/platform/id"
	uiapp "trefila/internal/ui/app"
)

type App struct {
	Config     config.Config
	Logger     *zap.Logger
	DrawingCLI drawinginadapter.CLIHandler
	RecipeCLI  recipeinadapter.CLIHandler
}

func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := clock.SystemClock{}

	drawingSvc := drawingservice.NewDrawingService(clk, drawingoutadapter.NewFileDraftStore(cfg.DraftPath), logger)
	drawingUC := drawingusecase.NewInteractor(drawingSvc)

	recipeProjector, err := recipeoutadapter.NewSQLiteRecipeProjector(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new recipe projector: %w", err)
	}
	recipeSvc := recipeservice.NewRecipeService(clk, id.UUID{}, recipeoutadapter.NewVaultRecipeStore(cfg.WorkspacePath), recipeProjector, logger)
	recipeUC := recipeusecase.NewInteractor(recipeSvc, drawingUC)

	logger.Debug("app wired", zap.String("workspace", cfg.WorkspacePath), zap.String("db", cfg.DBPath))
	return &App{
		Config:     cfg,
		Logger:     logger,
		DrawingCLI: drawinginadapter.NewCLIHandler(drawingUC),
		RecipeCLI:  recipeinadapter.NewCLIHandler(recipeUC),
	}, nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.Config.WorkspacePath, uiapp.Defaults{
		Mode:   app.Config.DefaultMode,
		Passes: app.Config.DefaultPasses,
	}, app.DrawingCLI, app.RecipeCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
