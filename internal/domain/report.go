package domain

// HighStockThreshold é o saldo acima do qual um material conta como "estoque alto".
const HighStockThreshold = 50

// DefaultTopMovedLimit é o tamanho padrão do ranking de materiais mais movimentados.
const DefaultTopMovedLimit = 3

// CategoryShare é uma barra do gráfico de distribuição por categoria.
// Ratio = Count / max(Count) entre todas as categorias.
type CategoryShare struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Ratio    float64 `json:"ratio"`
}

// MovedMaterial é uma linha do ranking de materiais mais movimentados.
// Total soma entradas e saídas sem compensar a direção.
type MovedMaterial struct {
	MaterialID   string `json:"materialId"`
	MaterialName string `json:"materialName"`
	Total        int    `json:"total"`
}

// Summary reúne os indicadores do painel e da página de relatórios.
type Summary struct {
	ActiveMaterials int             `json:"activeMaterials"`
	TotalUnits      int             `json:"totalUnits"`
	LowStockCount   int             `json:"lowStockCount"`
	OutOfStockCount int             `json:"outOfStockCount"`
	HighStockCount  int             `json:"highStockCount"`
	Categories      []CategoryShare `json:"categories"`
	TopMoved        []MovedMaterial `json:"topMoved"`
}
