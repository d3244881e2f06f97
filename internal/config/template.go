package config

const defaultTemplate = `campaign:
  id: contagio-cero
  title: "CONTAGIO CERO"

zones:
  - id: 0
    name: "Zona Neutral"
    boss: "La Resistencia"
    color: "#3b82f6"
    description: "Base de operaciones aliada. El Nido. Territorio libre."
  - id: 1
    name: "El Nuevo Edén (Oeste)"
    boss: "Magneto"
    color: "#dc2626"
    description: "Santuario natural y autarquía mutante protegida por montañas. Capital: San Francisco."
  - id: 2
    name: "Tierra de Nadie (Centro-Norte)"
    boss: "Hulk"
    color: "#84cc16"
    description: "The Wasteland. Zona de amortiguación destruida. Hordas nómadas y radiación. Capital: Ruinas de Chicago."
  - id: 3
    name: "El Imperio de la Carne (Noreste)"
    boss: "Kingpin"
    color: "#9333ea"
    description: "Mercado negro, industria pesada y mafias. Moneda: comida. Capital: Manhattan."
  - id: 4
    name: "Doomsberg (Sur)"
    boss: "Dr. Doom"
    color: "#166534"
    description: "Orden, tecnología y energía. Dictadura estricta opuesta al caos. Capital: Doomstadt (Dallas)."

state_zones:
  Washington: 1
  Oregon: 1
  California: 1
  Nevada: 1
  Idaho: 1
  Utah: 1
  Arizona: 1
  Montana: 1
  Wyoming: 1
  Colorado: 1
  Alaska: 1
  Hawaii: 1
  North Dakota: 2
  South Dakota: 2
  Nebraska: 2
  Kansas: 2
  Minnesota: 2
  Iowa: 2
  Missouri: 2
  Wisconsin: 2
  Illinois: 2
  Indiana: 2
  Michigan: 2
  Ohio: 2
  New Mexico: 2
  Oklahoma: 2
  Maine: 3
  New Hampshire: 3
  Vermont: 3
  Massachusetts: 3
  Rhode Island: 3
  Connecticut: 3
  New York: 3
  New Jersey: 3
  Pennsylvania: 3
  Delaware: 3
  Maryland: 3
  West Virginia: 3
  Virginia: 3
  District of Columbia: 3
  Texas: 4
  Arkansas: 4
  Louisiana: 4
  Mississippi: 4
  Alabama: 4
  Tennessee: 4
  Kentucky: 4
  North Carolina: 4
  South Carolina: 4
  Georgia: 4
  Florida: 4

labels:
  - zone: 1
    text: "NUEVO EDÉN"
    coordinates: [-113, 39]
  - zone: 2
    text: "TIERRA\nDE NADIE"
    coordinates: [-96, 42]
  - zone: 3
    text: "IMPERIO\nDE LA CARNE"
    coordinates: [-76, 42]
  - zone: 4
    text: "DOOMSBERG"
    coordinates: [-95, 30]

seed:
  mode: HEROES
  missions:
    - id: bunker-alpha
      title: "BÚNKER: EL NIDO (Héroes)"
      description: "Base de operaciones de la Resistencia. Frontera Kingpin/Tierra de Nadie."
      objectives:
        - id: obj-init-1
          text: "Establecer perímetro seguro"
          completed: true
        - id: obj-init-2
          text: "Contactar con supervivientes"
          completed: true
      zone: 0
      position: {x: 500, y: 300}
      status: COMPLETED
      location_state: Nebraska
      mode: HEROES
    - id: patient-zero
      title: "ZONA CERO: INFECCIÓN"
      description: "Primer brote masivo en las ruinas de la ciudad."
      objectives:
        - id: z-1
          text: "Sobrevivir a la horda inicial"
          completed: true
      zone: 2
      position: {x: 670, y: 220}
      status: COMPLETED
      location_state: Illinois
      mode: ZOMBIES
    - id: kraven-hunt
      title: "LA CAZA MAYOR DE KRAVEN"
      description: "No hay órdenes. Solo el rastro de los gritos y la desesperación. Kraven el Cazador ha marcado estas ruinas como su coto de caza. Debéis evacuar a un mínimo de 5 supervivientes por el Metro."
      objectives:
        - id: k-1
          text: "¡Deten la caceria!"
        - id: k-2
          text: "Todos debéis sobrevivir"
      zone: 3
      position: {x: 821, y: 174}
      status: AVAILABLE
      location_state: New York
      mode: HEROES
    - id: meat-sleeps
      title: "DONDE LA CARNE DUERME"
      description: "El Metro quedó atrás. Un técnico murmuraba sobre camiones y un viejo penal en el este. Fisk guarda algo allí que no quiere que nadie vea. Si el rumor es cierto, dentro hallaréis más que respuestas."
      objectives:
        - id: m-1
          text: "Investigar el penal abandonado"
        - id: m-2
          text: "Localizar 'La Cámara'"
      zone: 3
      position: {x: 857, y: 216}
      status: LOCKED
      dependencies: [kraven-hunt]
      location_state: New York
      mode: HEROES
    - id: fisk-territory
      title: "TERRITORIO FISK"
      description: "El héroe rescatado en la prisión no os dio un mapa. Os dio la entrada al territorio real de Kingpin. Su Mansión no está a la vista. La protege un barrio fantasma lleno de vigilancia silenciosa."
      objectives:
        - id: f-1
          text: "Romper el Cerco: Desactiva los 3 Nodos de Vigilancia"
        - id: f-2
          text: "Puerta Trasera: Accede a la entrada subterránea"
      zone: 3
      position: {x: 854, y: 222}
      status: LOCKED
      dependencies: [meat-sleeps]
      location_state: New York
      mode: HEROES
    - id: vestibulo-condenados
      title: "EL VESTÍBULO DE LOS CONDENADOS"
      description: "Salís desde las alcantarillas privadas de Fisk al patio interior de su Mansión. El vestíbulo no es una entrada: es un filtro. Y Misterio es su guardián."
      objectives:
        - id: v-1
          text: "Derrotar a Misterio y obtener la Tarjeta de Acceso"
        - id: v-2
          text: "Acceder al ascensor antes de que se active la seguridad"
      zone: 3
      position: {x: 854, y: 222}
      status: LOCKED
      dependencies: [fisk-territory]
      location_state: New York
      mode: HEROES
    - id: lord-kingpin
      title: "LORD KINGPIN"
      description: "El ascensor privado se detiene en el ático. Wilson Fisk no huye. Ya no es solo un mafioso; es el Rey del nuevo orden. Derrotadlo y cortad la cabeza de la serpiente."
      objectives:
        - id: kp-1
          text: "Derrotar a Wilson Fisk (Lord Kingpin)"
        - id: kp-2
          text: "Recuperar el control de Nueva York"
      zone: 3
      position: {x: 854, y: 222}
      status: LOCKED
      dependencies: [vestibulo-condenados]
      location_state: New York
      mode: HEROES
  heroes:
    - id: spiderman
      name: "Spider-Man"
      photo_url: "https://example.com/heroes/spiderman.png"
      bio: "Peter Parker. Héroe local de Queens. Experto en movilidad urbana y contención no letal. Afiliación: Vengadores / Defensores."
      objectives:
        - id: h-1
          text: "Localizar a Tía May en la Zona de Kingpin"
        - id: h-2
          text: "Recuperar lanzatelarañas del laboratorio Stark"
    - id: wolverine
      name: "Wolverine"
      photo_url: "https://example.com/heroes/wolverine.png"
      bio: "James 'Logan' Howlett. Factor de curación regenerativo y esqueleto de adamantium. El mejor en lo que hace, y lo que hace no es agradable."
    - id: black-widow
      name: "Viuda Negra"
      photo_url: "https://example.com/heroes/black-widow.png"
      bio: "Natasha Romanoff. Espía de nivel Omega. Especialista en infiltración profunda en Latveria y sabotaje de redes criminales."
    - id: scorpion
      name: "El Escorpión"
      photo_url: "https://example.com/heroes/scorpion.png"
      bio: "Mac Gargan. Ex-criminal reforzado genéticamente. Traje de combate con cola mecánica de ácido. Reclutado por necesidad."
    - id: reed-richards
      name: "Reed Richards"
      photo_url: "https://example.com/heroes/reed-richards.png"
      bio: "Mr. Fantástico. Intelecto nivel genio. Líder de los 4 Fantásticos. Actualmente investigando la cura del virus zombie."
    - id: sabretooth
      name: "Dientes de Sable"
      photo_url: "https://example.com/heroes/sabretooth.png"
      bio: "Victor Creed. Mutante salvaje, asesino y rastreador. Factor de curación avanzado. Peligroso e impredecible."
`
